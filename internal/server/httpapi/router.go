package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/gorilla/mux"
)

// Router builds the route table. Account endpoints behind /User need a
// bearer token.
func (s *HTTPServer) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)
	jsonErrors(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope{Success: true, Message: "OK"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix(common.APIPrefix).Subrouter()
	jsonErrors(api)
	api.HandleFunc("/SignIn", s.signIn).Methods(http.MethodPost)
	api.HandleFunc("/Google/OAuth", s.googleOAuth).Methods(http.MethodPost)
	api.HandleFunc("/SignUp", s.signUp).Methods(http.MethodPost)
	api.HandleFunc("/ForgetPassword", s.forgetPassword).Methods(http.MethodPost)
	api.HandleFunc("/VerifyOTP", s.verifyOTP).Methods(http.MethodPost)
	api.HandleFunc("/ResetPassword", s.resetPassword).Methods(http.MethodPatch)

	account := api.PathPrefix("/User").Subrouter()
	jsonErrors(account)
	account.Use(s.accessTokenMiddleware)
	account.HandleFunc("/Details", s.userDetails).Methods(http.MethodGet)
	account.HandleFunc("/Delete", s.deleteUser).Methods(http.MethodDelete)

	return r
}

// jsonErrors installs the envelope 404 and 405 handlers. mux does not
// inherit them, so every subrouter needs its own.
func jsonErrors(r *mux.Router) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}
