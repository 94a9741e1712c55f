package http

import (
	"fmt"
	"html"
	"net/http"
)

// Server-rendered pages. The markup is deliberately minimal; the
// interesting part is which guard wraps each route.

func (s *Server) handleLoginPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html>
<title>Inclusiva — Acceso</title>
<h1>Acceso</h1>
<form id="login">
  <input type="email" name="email" placeholder="Correo">
  <input type="password" name="password" placeholder="Contraseña">
  <button type="submit">Entrar</button>
</form>
<p id="error"></p>
<script>
document.getElementById('login').addEventListener('submit', async (e) => {
  e.preventDefault();
  const data = new FormData(e.target);
  const res = await fetch('/api/auth/login', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({email: data.get('email'), password: data.get('password')}),
  });
  if (res.ok) { window.location = '/admin'; return; }
  const body = await res.json().catch(() => ({}));
  document.getElementById('error').textContent = body.error || 'Error';
});
</script>
`)
}

func (s *Server) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	caller := authFromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html>
<title>Inclusiva — Administración</title>
<h1>Panel de administración</h1>
<p>Sesión: %s (%s)</p>
`, html.EscapeString(caller.UserID), html.EscapeString(string(caller.Role)))
}

func (s *Server) handleReportsPage(w http.ResponseWriter, r *http.Request) {
	caller := authFromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html>
<title>Inclusiva — Denuncias</title>
<h1>Denuncias abiertas</h1>
<p>Moderando como %s</p>
`, html.EscapeString(string(caller.Role)))
}

func (s *Server) handleVerifiedPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.URL.Query().Get("ok") == "1" {
		fmt.Fprint(w, `<!doctype html>
<title>Inclusiva — Verificación</title>
<h1>Correo verificado</h1>
`)
		return
	}
	reason := r.URL.Query().Get("error")
	fmt.Fprintf(w, `<!doctype html>
<title>Inclusiva — Verificación</title>
<h1>No se pudo verificar</h1>
<p>%s</p>
`, html.EscapeString(reason))
}
