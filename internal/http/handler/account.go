package handler

import (
	"net/http"
	"strings"

	"github.com/jaekwang-park/todo-items/internal/service"
	"github.com/jaekwang-park/todo-items/internal/validator"
)

// AccountHandler serves account registration and access-token issuance.
type AccountHandler struct {
	svc          *service.AccountService
	accountsPath string
	tokensPath   string

	createAccount validator.Chain
	createToken   validator.Chain
}

func NewAccountHandler(svc *service.AccountService, basePath string) *AccountHandler {
	base := strings.TrimRight(basePath, "/")
	return &AccountHandler{
		svc:           svc,
		accountsPath:  base + "/accounts",
		tokensPath:    base + "/access-tokens",
		createAccount: validator.CreateAccount(svc.Matches),
		createToken:   validator.CreateAccessToken(),
	}
}

func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var handle func(http.ResponseWriter, *http.Request)
	switch strings.TrimRight(r.URL.Path, "/") {
	case h.accountsPath:
		handle = h.handleCreateAccount
	case h.tokensPath:
		handle = h.handleCreateToken
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	handle(w, r)
}

// credentials decodes and validates an {email, password} body.
func credentials(w http.ResponseWriter, r *http.Request, chain validator.Chain) (email, password string, err error) {
	body, err := decodeBody(w, r)
	if err != nil {
		return "", "", err
	}
	if err := chain.Validate(r.Context(), validator.Input{Body: body}); err != nil {
		return "", "", err
	}
	return body["email"].(string), body["password"].(string), nil
}

func (h *AccountHandler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	email, password, err := credentials(w, r, h.createAccount)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	account, err := h.svc.Register(r.Context(), email, password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, account.Serialize())
}

func (h *AccountHandler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	email, password, err := credentials(w, r, h.createToken)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	token, err := h.svc.IssueToken(r.Context(), email, password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, token)
}
