package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts every route under the /xpert prefix. Only the /auth
// subtree sits behind the access guard.
func NewRouter(
	noAuth *NoAuthHandler,
	authed *AuthHandler,
	category *CategoryHandler,
	guard func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/xpert", func(r chi.Router) {
		r.Route("/noAuth", func(r chi.Router) {
			r.Post("/signup", noAuth.SignUp)
			r.Post("/addProfile", noAuth.AddProfile)
			r.Post("/verifySignUpOtp", noAuth.VerifySignUpOTP)
			r.Post("/login", noAuth.Login)
			r.Put("/forgotPassword", noAuth.ForgotPassword)
			r.Put("/updatePassword", noAuth.UpdatePassword)
			r.Post("/resendOtp", noAuth.ResendOTP)
		})

		r.Route("/category", func(r chi.Router) {
			r.Get("/getCategories", category.GetCategories)
			r.Post("/addOrUpdateCategories", category.AddOrUpdateCategories)
		})

		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Route("/auth", func(r chi.Router) {
				r.Put("/updatePassword", authed.UpdatePassword)
				r.Put("/updateProfile", authed.UpdateProfile)
			})
		})
	})

	return r
}
