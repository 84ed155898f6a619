package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ledger-board/internal/domain"
	"ledger-board/internal/service"
	"ledger-board/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	transactions service.TransactionService
	users        service.UserService
	reports      service.ReportService
	auth         service.AuthService
	jwtSecret    string
	tokenTTL     time.Duration
	logger       logrus.FieldLogger
}

func NewHandler(
	transactions service.TransactionService,
	users service.UserService,
	reports service.ReportService,
	auth service.AuthService,
	jwtSecret string,
	tokenTTL time.Duration,
	logger logrus.FieldLogger,
) *Handler {
	return &Handler{
		transactions: transactions,
		users:        users,
		reports:      reports,
		auth:         auth,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)

		authed := api.Group("")
		authed.Use(h.requireAuth())
		{
			authed.GET("/transactions", h.listTransactions)
			authed.POST("/transactions", h.createTransaction)
			authed.PUT("/transactions/:id", h.updateTransaction)
			authed.DELETE("/transactions/:id", h.deleteTransaction)

			authed.GET("/users", h.listUsers)
			authed.PUT("/users/:id", h.updateUser)
			authed.DELETE("/users/:id", h.deleteUser)

			authed.GET("/reports/summary", h.reportSummary)
			authed.POST("/reports/export", h.exportReport)
			authed.GET("/reports/exports", h.listExports)
			authed.GET("/reports/exports/url", h.exportURL)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

const dateLayout = "2006-01-02"

type createTransactionRequest struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"`
	Date        string `json:"date"`
}

func (h *Handler) listTransactions(c *gin.Context) {
	txs, err := h.transactions.List(c.Request.Context(), principalFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]TransactionResponse, len(txs))
	for i := range txs {
		resp[i] = transactionToResponse(txs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input := service.CreateTransactionInput{
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        domain.TransactionKind(req.Kind),
	}
	if req.Date != "" {
		// a bare calendar date lands on local midnight
		occurredOn, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
			return
		}
		input.OccurredOn = &occurredOn
	}

	tx, err := h.transactions.Create(c.Request.Context(), principalFrom(c), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transactionToResponse(*tx))
}

type updateTransactionRequest struct {
	Description domain.Optional[string] `json:"description"`
	Amount      domain.Optional[int64]  `json:"amount"`
	Kind        domain.Optional[string] `json:"kind"`
	Date        domain.Optional[string] `json:"date"`
}

func (h *Handler) updateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := domain.TransactionPatch{
		Description: req.Description,
	}
	patch.Amount = req.Amount
	if req.Kind.Set {
		patch.Kind = domain.Optional[domain.TransactionKind]{
			Set:   true,
			Null:  req.Kind.Null,
			Value: domain.TransactionKind(req.Kind.Value),
		}
	}
	if req.Date.Set {
		patch.OccurredOn = domain.Optional[time.Time]{Set: true, Null: req.Date.Null}
		if !req.Date.Null {
			occurredOn, err := time.ParseInLocation(dateLayout, req.Date.Value, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
				return
			}
			patch.OccurredOn.Value = occurredOn
		}
	}

	tx, err := h.transactions.Update(c.Request.Context(), principalFrom(c), c.Param("id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionToResponse(*tx))
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	id := c.Param("id")
	if err := h.transactions.Delete(c.Request.Context(), principalFrom(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), principalFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

type updateUserRequest struct {
	Name  domain.Optional[string] `json:"name"`
	Phone domain.Optional[string] `json:"phone"`
	Role  domain.Optional[string] `json:"role"`
}

func (h *Handler) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := domain.UserPatch{
		Name:  req.Name,
		Phone: req.Phone,
	}
	if req.Role.Set {
		patch.Role = domain.Optional[domain.Role]{
			Set:   true,
			Null:  req.Role.Null,
			Value: domain.Role(req.Role.Value),
		}
	}

	user, err := h.users.Update(c.Request.Context(), principalFrom(c), c.Param("id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.users.Delete(c.Request.Context(), principalFrom(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) reportSummary(c *gin.Context) {
	report, err := h.reports.Summary(c.Request.Context(), principalFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportToResponse(*report))
}

func (h *Handler) exportReport(c *gin.Context) {
	location, err := h.reports.Export(c.Request.Context(), principalFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location})
}

func (h *Handler) listExports(c *gin.Context) {
	objects, err := h.reports.ListExports(c.Request.Context(), principalFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) exportURL(c *gin.Context) {
	url, err := h.reports.ExportURL(c.Request.Context(), principalFrom(c), c.Query("key"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// writeError translates the service error taxonomy into status codes.
// Anything unrecognized is a store failure and stays opaque to the caller.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrInvalidRegistrationPassword):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
	default:
		if h.logger != nil {
			h.logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type TransactionResponse struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Amount      int64          `json:"amount"`
	Kind        string         `json:"kind"`
	OccurredOn  string         `json:"occurred_on"`
	OwnerID     string         `json:"owner_id"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Owner       *OwnerResponse `json:"owner,omitempty"`
}

type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Role             string `json:"role"`
	Image            string `json:"image,omitempty"`
	CreatedAt        string `json:"created_at"`
	TransactionCount int64  `json:"transaction_count"`
}

type SummaryResponse struct {
	TotalIncome      int64 `json:"total_income"`
	TotalExpense     int64 `json:"total_expense"`
	Balance          int64 `json:"balance"`
	TransactionCount int   `json:"transaction_count"`
}

type MonthEntryResponse struct {
	Month   string `json:"month"`
	Label   string `json:"label"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

type TypeEntryResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type ReportResponse struct {
	Summary       SummaryResponse       `json:"summary"`
	MonthlySeries []MonthEntryResponse  `json:"monthly_series"`
	TypeBreakdown []TypeEntryResponse   `json:"type_breakdown"`
	Transactions  []TransactionResponse `json:"transactions"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func transactionToResponse(tx domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Kind:        string(tx.Kind),
		OccurredOn:  tx.OccurredOn.Format(time.RFC3339),
		OwnerID:     tx.OwnerID,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   tx.UpdatedAt.Format(time.RFC3339),
	}
	if tx.Owner != nil {
		resp.Owner = &OwnerResponse{
			ID:    tx.Owner.ID,
			Name:  tx.Owner.Name,
			Email: tx.Owner.Email,
		}
	}
	return resp
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Phone:            user.Phone,
		Role:             string(user.Role),
		Image:            user.Image,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
		TransactionCount: user.TransactionCount,
	}
}

func reportToResponse(report service.Report) ReportResponse {
	resp := ReportResponse{
		Summary: SummaryResponse{
			TotalIncome:      report.Summary.TotalIncome,
			TotalExpense:     report.Summary.TotalExpense,
			Balance:          report.Summary.Balance,
			TransactionCount: report.Summary.TransactionCount,
		},
		MonthlySeries: make([]MonthEntryResponse, len(report.MonthlySeries)),
		TypeBreakdown: make([]TypeEntryResponse, len(report.TypeBreakdown)),
		Transactions:  make([]TransactionResponse, len(report.Transactions)),
	}
	for i, entry := range report.MonthlySeries {
		resp.MonthlySeries[i] = MonthEntryResponse{
			Month:   entry.Month,
			Label:   entry.Label,
			Income:  entry.Income,
			Expense: entry.Expense,
		}
	}
	for i, entry := range report.TypeBreakdown {
		resp.TypeBreakdown[i] = TypeEntryResponse{Name: entry.Name, Value: entry.Value}
	}
	for i := range report.Transactions {
		resp.Transactions[i] = transactionToResponse(report.Transactions[i])
	}
	return resp
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
