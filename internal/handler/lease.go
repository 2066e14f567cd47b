package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/premises-rental/internal/middleware"
	"github.com/iliyamo/premises-rental/internal/model"
	"github.com/iliyamo/premises-rental/internal/policy"
	"github.com/iliyamo/premises-rental/internal/queue"
	"github.com/iliyamo/premises-rental/internal/repository"
	queuepub "github.com/iliyamo/premises-rental/internal/service"
)

// LeaseHandler serves leases and their payment ledger. Lease creation and
// deletion flip room status inside repository transactions; this layer only
// decides who may do what and what gets published afterwards.
type LeaseHandler struct {
	Leases   *repository.LeaseRepo
	Payments *repository.PaymentRepo
	Rooms    *repository.RoomRepo
}

func NewLeaseHandler(l *repository.LeaseRepo, p *repository.PaymentRepo, r *repository.RoomRepo) *LeaseHandler {
	return &LeaseHandler{Leases: l, Payments: p, Rooms: r}
}

type leaseCreateReq struct {
	RoomID      uint64   `json:"room_id"`
	TenantID    uint64   `json:"tenant_id"` // admins may lease on behalf of a tenant
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	MonthlyRent float64  `json:"monthly_rent"`
	Deposit     *float64 `json:"deposit"`
}

type leaseUpdateReq struct {
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	MonthlyRent *float64 `json:"monthly_rent"`
	Deposit     *float64 `json:"deposit"`
	Status      *string  `json:"status"`
}

// parseDay accepts YYYY-MM-DD, the wire format for lease dates.
func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return t, err == nil
}

// List shows every lease to admins and only the caller's own to others.
func (h *LeaseHandler) List(c echo.Context) error {
	u := middleware.Caller(c)
	skip, limit := pagination(c)

	tenantID := u.ID
	if policy.Allow(u.Role, u.ID, policy.OpListAll, 0) {
		tenantID = 0 // unscoped
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Leases.List(ctx, tenantID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LeaseHandler) Get(c echo.Context) error {
	u := middleware.Caller(c)
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lease id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Leases.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrLeaseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !policy.Allow(u.Role, u.ID, policy.OpLeaseRead, l.TenantID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, l)
}

// Create books a room. The repository takes a row lock on the room so two
// concurrent requests cannot both see it available; exactly one wins.
func (h *LeaseHandler) Create(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpLeaseCreate, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req leaseCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomID == 0 || req.MonthlyRent <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id and positive monthly_rent required"})
	}
	start, ok1 := parseDay(req.StartDate)
	end, ok2 := parseDay(req.EndDate)
	if !ok1 || !ok2 || !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date/end_date must be YYYY-MM-DD with end after start"})
	}

	tenantID := u.ID
	if req.TenantID != 0 && req.TenantID != u.ID {
		// Only admins can write a lease in someone else's name.
		if u.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		tenantID = req.TenantID
	}

	l := model.Lease{
		RoomID:      req.RoomID,
		TenantID:    tenantID,
		StartDate:   start,
		EndDate:     end,
		MonthlyRent: req.MonthlyRent,
		Deposit:     req.Deposit,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Leases.Create(ctx, &l); err != nil {
		switch err {
		case repository.ErrRoomNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case repository.ErrRoomUnavailable:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room is not available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lease failed"})
	}

	h.publishActivated(ctx, &l, u)
	return c.JSON(http.StatusCreated, l)
}

// publishActivated emits the lease.activated event. Broker trouble is logged
// and swallowed; the lease is already committed.
func (h *LeaseHandler) publishActivated(ctx context.Context, l *model.Lease, u *model.User) {
	roomNumber := ""
	if r, err := h.Rooms.GetByID(ctx, l.RoomID); err == nil {
		roomNumber = r.RoomNumber
	}
	ev := queue.LeaseActivatedEvent{
		LeaseID:     l.ID,
		TenantID:    l.TenantID,
		TenantEmail: u.Email,
		RoomID:      l.RoomID,
		RoomNumber:  roomNumber,
		MonthlyRent: l.MonthlyRent,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		ActivatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := queuepub.PublishLeaseActivated(ctx, ev); err != nil {
		log.Printf("lease %d: publish activated event: %v", l.ID, err)
	}
}

// Update changes lease terms or status. Admin only; no room side effects,
// freeing a room goes through Delete.
func (h *LeaseHandler) Update(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpLeaseUpdate, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lease id"})
	}

	var req leaseUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Leases.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrLeaseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.StartDate != nil {
		t, ok := parseDay(*req.StartDate)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
		}
		l.StartDate = t
	}
	if req.EndDate != nil {
		t, ok := parseDay(*req.EndDate)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
		}
		l.EndDate = t
	}
	if !l.EndDate.After(l.StartDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be after start_date"})
	}
	if req.MonthlyRent != nil {
		if *req.MonthlyRent <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "monthly_rent must be positive"})
		}
		l.MonthlyRent = *req.MonthlyRent
	}
	if req.Deposit != nil {
		l.Deposit = req.Deposit
	}
	if req.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*req.Status))
		if !model.ValidLeaseStatus(s) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		l.Status = s
	}

	if err := h.Leases.Update(ctx, l); err != nil {
		if err == repository.ErrLeaseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update lease failed"})
	}
	return c.JSON(http.StatusOK, l)
}

// Delete ends a lease: the repository frees the room and removes the row in
// one transaction.
func (h *LeaseHandler) Delete(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpLeaseDelete, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lease id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Leases.Delete(ctx, id); err != nil {
		if err == repository.ErrLeaseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete lease failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- payments -----

// ListPayments returns a lease's ledger to admins and the tenant.
func (h *LeaseHandler) ListPayments(c echo.Context) error {
	u := middleware.Caller(c)
	leaseID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lease id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Leases.GetByID(ctx, leaseID)
	if err != nil {
		if err == repository.ErrLeaseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !policy.Allow(u.Role, u.ID, policy.OpPaymentRead, l.TenantID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	payments, err := h.Payments.ListByLease(ctx, leaseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, payments)
}

// CreatePayment appends an entry to the ledger. Any authenticated caller may
// record a payment as long as the lease exists; entries are never edited.
func (h *LeaseHandler) CreatePayment(c echo.Context) error {
	u := middleware.Caller(c)
	if !policy.Allow(u.Role, u.ID, policy.OpPaymentCreate, 0) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	leaseID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lease id"})
	}

	var req struct {
		Amount        float64 `json:"amount"`
		PaymentMethod string  `json:"payment_method"`
		PaymentDate   string  `json:"payment_date"` // optional, defaults to now
		Status        string  `json:"status"`       // optional, defaults to completed
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && !model.ValidPaymentStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	var payDate time.Time
	if strings.TrimSpace(req.PaymentDate) != "" {
		t, ok := parseDay(req.PaymentDate)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_date"})
		}
		payDate = t
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Leases.GetByID(ctx, leaseID); err != nil {
		if err == repository.ErrLeaseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lease not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	p := model.Payment{
		LeaseID:       leaseID,
		PaymentDate:   payDate,
		Amount:        req.Amount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Status:        status,
	}
	if err := h.Payments.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record payment failed"})
	}
	return c.JSON(http.StatusCreated, p)
}
