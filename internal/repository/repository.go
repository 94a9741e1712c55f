package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/evycast/inclusiva-sub001/internal/model"
)

// Store is the raw-SQL persistence layer. Every method is a single
// statement against the pool; callers translate sql.ErrNoRows.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, status, email_verified, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.Status,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, status, email_verified, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.Status,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, status, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.Email, user.PasswordHash, user.Name, string(user.Role), string(user.Status), user.EmailVerified, user.CreatedAt, user.UpdatedAt)
	return err
}

func (s *Store) ListUsers(ctx context.Context, limit int) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password_hash, name, role, status, email_verified, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Name,
			&user.Role,
			&user.Status,
			&user.EmailVerified,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserRole(ctx context.Context, userID string, role model.Role) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET role = $1, updated_at = $2 WHERE id = $3
	`, string(role), time.Now().UTC(), userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (s *Store) UpdateUserStatus(ctx context.Context, userID string, status model.Status) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET status = $1, updated_at = $2 WHERE id = $3
	`, string(status), time.Now().UTC(), userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// MarkEmailVerified stamps the verification time and approves the
// account in one statement.
func (s *Store) MarkEmailVerified(ctx context.Context, userID string, verifiedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET email_verified = $1, status = 'approved', updated_at = $1 WHERE id = $2
	`, verifiedAt, userID)
	return err
}

func (s *Store) CreateVerificationToken(ctx context.Context, token model.VerificationToken) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verification_tokens (token_hash, identifier, expires)
		VALUES ($1, $2, $3)
	`, token.TokenHash, token.Identifier, token.Expires)
	return err
}

func (s *Store) GetVerificationToken(ctx context.Context, tokenHash string) (model.VerificationToken, error) {
	var token model.VerificationToken
	row := s.db.QueryRowContext(ctx, `
		SELECT token_hash, identifier, expires
		FROM verification_tokens
		WHERE token_hash = $1
	`, tokenHash)
	err := row.Scan(&token.TokenHash, &token.Identifier, &token.Expires)
	return token, err
}

// DeleteVerificationToken consumes a token. The caller relies on the
// returned flag for one-time semantics: a second delete finds nothing.
func (s *Store) DeleteVerificationToken(ctx context.Context, tokenHash string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM verification_tokens WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (s *Store) CreatePost(ctx context.Context, post model.Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, title, body, category, image_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, post.ID, post.AuthorID, post.Title, post.Body, post.Category, post.ImageKey, string(post.Status), post.CreatedAt, post.UpdatedAt)
	return err
}

func (s *Store) GetPost(ctx context.Context, postID string) (model.Post, error) {
	var post model.Post
	row := s.db.QueryRowContext(ctx, `
		SELECT id, author_id, title, body, category, image_key, status, created_at, updated_at
		FROM posts
		WHERE id = $1
	`, postID)
	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Body,
		&post.Category,
		&post.ImageKey,
		&post.Status,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	return post, err
}

// ListPosts returns approved posts; when includePending is set
// (moderator and admin views) pending ones are included too.
func (s *Store) ListPosts(ctx context.Context, includePending bool, limit int) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author_id, title, body, category, image_key, status, created_at, updated_at
		FROM posts
		WHERE status = 'approved' OR ($1 AND status = 'pending')
		ORDER BY created_at DESC
		LIMIT $2
	`, includePending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Title,
			&post.Body,
			&post.Category,
			&post.ImageKey,
			&post.Status,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (s *Store) SetPostImage(ctx context.Context, postID, imageKey string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET image_key = $1, updated_at = $2 WHERE id = $3
	`, imageKey, time.Now().UTC(), postID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (s *Store) DeletePost(ctx context.Context, postID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM posts WHERE id = $1
	`, postID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (s *Store) CreateComment(ctx context.Context, comment model.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, comment.ID, comment.PostID, comment.AuthorID, comment.Body, comment.CreatedAt)
	return err
}

func (s *Store) DeleteComment(ctx context.Context, commentID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM comments WHERE id = $1
	`, commentID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (s *Store) CreateReport(ctx context.Context, report model.Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, post_id, reporter_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, report.ID, report.PostID, report.ReporterID, report.Reason, report.CreatedAt)
	return err
}

func (s *Store) ListOpenReports(ctx context.Context, limit int) ([]model.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, reporter_id, reason, created_at, resolved_at, resolved_by
		FROM reports
		WHERE resolved_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var report model.Report
		if err := rows.Scan(
			&report.ID,
			&report.PostID,
			&report.ReporterID,
			&report.Reason,
			&report.CreatedAt,
			&report.ResolvedAt,
			&report.ResolvedBy,
		); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (s *Store) ResolveReport(ctx context.Context, reportID, resolvedBy string, resolvedAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reports SET resolved_at = $1, resolved_by = $2
		WHERE id = $3 AND resolved_at IS NULL
	`, resolvedAt, resolvedBy, reportID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
