package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
	"github.com/segyhp/loan-tracker/pkg/response"
)

type LedgerHandler struct {
	service LedgerService
	logger  *logrus.Logger
}

func NewLedgerHandler(service LedgerService, logger *logrus.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the file, transaction and dashboard endpoints on r.
func (h *LedgerHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/files", h.ListFiles).Methods(http.MethodGet)
	r.HandleFunc("/files", h.CreateFile).Methods(http.MethodPost)
	r.HandleFunc("/files/{fileId}", h.GetFile).Methods(http.MethodGet)
	r.HandleFunc("/files/{fileId}/close", h.CloseFile).Methods(http.MethodPost)
	r.HandleFunc("/files/{fileId}/transactions", h.ListTransactions).Methods(http.MethodGet)
	r.HandleFunc("/files/{fileId}/transactions", h.CreateTransaction).Methods(http.MethodPost)
	r.HandleFunc("/files/{fileId}/transactions/{transactionId}", h.UpdateTransaction).Methods(http.MethodPut)
	r.HandleFunc("/files/{fileId}/transactions/{transactionId}", h.DeleteTransaction).Methods(http.MethodDelete)
	r.HandleFunc("/files/{fileId}/statement", h.GetStatement).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
}

func (h *LedgerHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	status := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))

	files, err := h.service.ListFiles(r.Context(), status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, files)
}

func (h *LedgerHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFileRequest
	if !decode(w, r, &req) {
		return
	}

	file, err := h.service.CreateFile(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, file)
}

func (h *LedgerHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := pathFileID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetFile(r.Context(), fileID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, detail)
}

func (h *LedgerHandler) CloseFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := pathFileID(w, r)
	if !ok {
		return
	}

	file, err := h.service.CloseFile(r.Context(), fileID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, file)
}

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	fileID, ok := pathFileID(w, r)
	if !ok {
		return
	}

	txns, err := h.service.ListTransactions(r.Context(), fileID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, txns)
}

func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	fileID, ok := pathFileID(w, r)
	if !ok {
		return
	}
	var req domain.CreateTransactionRequest
	if !decode(w, r, &req) {
		return
	}

	txn, err := h.service.CreateTransaction(r.Context(), fileID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, txn)
}

func (h *LedgerHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	fileID, txnID, ok := pathTransactionIDs(w, r)
	if !ok {
		return
	}
	var req domain.UpdateTransactionRequest
	if !decode(w, r, &req) {
		return
	}

	txn, err := h.service.UpdateTransaction(r.Context(), fileID, txnID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, txn)
}

func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	fileID, txnID, ok := pathTransactionIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), fileID, txnID); err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"id": txnID.String()})
}

func (h *LedgerHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	fileID, ok := pathFileID(w, r)
	if !ok {
		return
	}

	statement, err := h.service.GetStatement(r.Context(), fileID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, statement)
}

func (h *LedgerHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, dashboard)
}

// fail writes err and logs it when it is not a client error.
func (h *LedgerHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if response.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"request_id": response.RequestID(r.Context()),
		}).Error("Request failed")
	}
	response.FromError(w, err)
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.FromError(w, customError.NewValidationError("", "Invalid request body: "+err.Error()))
		return false
	}
	return true
}

// An id that is not a UUID cannot name a stored record, so it reads as not found.
func pathFileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["fileId"]
	id, err := uuid.Parse(raw)
	if err != nil {
		response.FromError(w, customError.WrapFileNotFound(raw))
		return uuid.Nil, false
	}
	return id, true
}

func pathTransactionIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	fileID, ok := pathFileID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	raw := mux.Vars(r)["transactionId"]
	txnID, err := uuid.Parse(raw)
	if err != nil {
		response.FromError(w, customError.WrapTransactionNotFound(raw))
		return uuid.Nil, uuid.Nil, false
	}
	return fileID, txnID, true
}
