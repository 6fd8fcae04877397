package middleware

import (
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/samape/samape/models"
	"github.com/samape/samape/userctx"
)

// RequireAuth ensures the user is authenticated.
// If not authenticated, redirects to /login and stores the intended destination
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		userID, ok := sess.Get("user_id").(int)
		if !ok || userID <= 0 {
			// Store the intended destination for redirect after login
			sess.Set("redirect_after_login", r.URL.RequestURI())
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		name, _ := sess.Get("user_name").(string)
		roleStr, _ := sess.Get("user_role").(string)
		role, err := models.ParseRole(roleStr)
		if err != nil {
			// A session with an unknown role is not trusted
			sess.Delete("user_id")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := userctx.SetUser(r.Context(), userID, name, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole restricts a route group to users holding one of the allowed
// roles. Must be mounted inside RequireAuth.
func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := userctx.UserRole(r.Context())

			permitted := false
			for _, a := range allowed {
				if role == a {
					permitted = true
					break
				}
			}
			if !permitted {
				http.Error(w, "Acesso negado.", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
