package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Wholesale order errors
var (
	ErrWholesaleItemEmpty        = shared.NewDomainError("WHOLESALE_ITEM_EMPTY", "Wholesale order must contain at least one item")
	ErrWholesaleAccessDenied     = shared.NewDomainError("WHOLESALE_ACCESS_DENIED", "Wholesale order belongs to another store")
	ErrWholesaleAlreadyConfirmed = shared.NewDomainError("WHOLESALE_ALREADY_CONFIRMED", "Wholesale order is already confirmed")
	ErrWholesaleAlreadyCanceled  = shared.NewDomainError("WHOLESALE_ALREADY_CANCELED", "Wholesale order is already canceled")
	ErrWholesalePaymentPending   = shared.NewDomainError("WHOLESALE_PAYMENT_PENDING", "Wholesale order is awaiting payment")
	ErrDuplicateExternalOrder    = shared.NewDomainError("DUPLICATE_EXTERNAL_ORDER", "An order with this external ID was already ingested")
)

// WholesaleStatus represents the lifecycle state of a wholesale order
type WholesaleStatus string

const (
	// WholesaleStatusPaymentPending is the entry state for orders pulled
	// from an external feed before payment clears. No warehouse stock is
	// deducted in this state; a reservation is all the order holds.
	WholesaleStatusPaymentPending WholesaleStatus = "PAYMENT_PENDING"
	WholesaleStatusPending        WholesaleStatus = "PENDING"
	WholesaleStatusConfirmed      WholesaleStatus = "CONFIRMED"
	WholesaleStatusCanceled       WholesaleStatus = "CANCELED"
)

// IsValid checks if the status is valid
func (s WholesaleStatus) IsValid() bool {
	switch s {
	case WholesaleStatusPaymentPending, WholesaleStatusPending,
		WholesaleStatusConfirmed, WholesaleStatusCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s WholesaleStatus) IsTerminal() bool {
	return s == WholesaleStatusConfirmed || s == WholesaleStatusCanceled
}

// Wholesale is a bulk order that reserves warehouse stock when created
// and deducts it exactly once when confirmed.
type Wholesale struct {
	shared.StoreAggregateRoot
	Status WholesaleStatus `gorm:"size:20;not null;default:'PENDING'"`
	// ExternalOrderID is set for orders ingested from a remote feed and
	// is the dedup key: a given remote order maps to at most one row.
	ExternalOrderID *string `gorm:"size:64;uniqueIndex"`
	OrderReference  string  `gorm:"size:255"`
	ReleaseDate     *time.Time
	InvoiceNumber   string `gorm:"size:64"`
	ProcessedAt     *time.Time
	TotalPrice      int64 `gorm:"not null;default:0"`

	Items []WholesaleItem `gorm:"foreignKey:WholesaleID;references:ID"`
}

// TableName returns the table name for GORM
func (Wholesale) TableName() string {
	return "wholesales"
}

// WholesaleItem is a single product line on a wholesale order
type WholesaleItem struct {
	shared.BaseEntity
	WholesaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"size:150;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   int64           `gorm:"not null"`
	Amount      int64           `gorm:"not null"`
	Note        string          `gorm:"size:255"`
	// InsufficientStock marks lines whose deduction failed during feed
	// ingestion. The order still completes; an operator settles the
	// shortage by hand.
	InsufficientStock bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (WholesaleItem) TableName() string {
	return "wholesale_items"
}

// WholesaleItemInput carries the data needed to build a wholesale line
type WholesaleItemInput struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   int64
	Note        string
}

func buildWholesaleItems(wholesaleID uuid.UUID, inputs []WholesaleItemInput) ([]WholesaleItem, error) {
	items := make([]WholesaleItem, 0, len(inputs))
	for _, input := range inputs {
		if input.Quantity.IsNegative() || input.Quantity.IsZero() {
			return nil, shared.ErrInvalidQuantity
		}
		items = append(items, WholesaleItem{
			BaseEntity:  shared.NewBaseEntity(),
			WholesaleID: wholesaleID,
			ProductID:   input.ProductID,
			ProductName: input.ProductName,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			Amount:      itemAmount(input.Quantity, input.UnitPrice),
			Note:        input.Note,
		})
	}
	return items, nil
}

// NewPendingWholesale creates an order in PENDING state. The caller
// reserves outgoing stock per item before persisting.
func NewPendingWholesale(storeID uuid.UUID, inputs []WholesaleItemInput, orderReference string) (*Wholesale, error) {
	if len(inputs) == 0 {
		return nil, ErrWholesaleItemEmpty
	}
	wholesale := &Wholesale{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Status:             WholesaleStatusPending,
		OrderReference:     orderReference,
	}
	items, err := buildWholesaleItems(wholesale.ID, inputs)
	if err != nil {
		return nil, err
	}
	wholesale.Items = items
	wholesale.recalculateTotal()
	wholesale.AddDomainEvent(NewWholesaleCreatedEvent(wholesale))
	return wholesale, nil
}

// NewExternalWholesale creates an order pulled from a remote feed. It
// starts in PAYMENT_PENDING and carries the remote order ID for dedup.
func NewExternalWholesale(storeID uuid.UUID, externalOrderID string, inputs []WholesaleItemInput, orderReference string) (*Wholesale, error) {
	if externalOrderID == "" {
		return nil, shared.NewDomainError("EXTERNAL_ORDER_ID_REQUIRED", "External order ID is required")
	}
	if len(inputs) == 0 {
		return nil, ErrWholesaleItemEmpty
	}
	wholesale := &Wholesale{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Status:             WholesaleStatusPaymentPending,
		ExternalOrderID:    &externalOrderID,
		OrderReference:     orderReference,
	}
	items, err := buildWholesaleItems(wholesale.ID, inputs)
	if err != nil {
		return nil, err
	}
	wholesale.Items = items
	wholesale.recalculateTotal()
	wholesale.AddDomainEvent(NewWholesaleCreatedEvent(wholesale))
	return wholesale, nil
}

func (w *Wholesale) recalculateTotal() {
	var total int64
	for _, item := range w.Items {
		total += item.Amount
	}
	w.TotalPrice = total
}

// ValidateStoreAccess checks the order belongs to the given store
func (w *Wholesale) ValidateStoreAccess(storeID uuid.UUID) error {
	if !w.BelongsTo(storeID) {
		return ErrWholesaleAccessDenied
	}
	return nil
}

// IsUnpaid reports whether the order is still awaiting payment
func (w *Wholesale) IsUnpaid() bool {
	return w.Status == WholesaleStatusPaymentPending
}

// MarkPaid moves an external order from PAYMENT_PENDING to PENDING
func (w *Wholesale) MarkPaid() error {
	switch w.Status {
	case WholesaleStatusConfirmed:
		return ErrWholesaleAlreadyConfirmed
	case WholesaleStatusCanceled:
		return ErrWholesaleAlreadyCanceled
	case WholesaleStatusPending:
		return shared.ErrInvalidState
	}
	w.Status = WholesaleStatusPending
	w.touch()
	return nil
}

// Confirm ships the order. The caller runs ConfirmOutgoing per item so
// the reservation is released and the warehouse deducted exactly once.
func (w *Wholesale) Confirm(releaseDate *time.Time, invoiceNumber string) error {
	switch w.Status {
	case WholesaleStatusConfirmed:
		return ErrWholesaleAlreadyConfirmed
	case WholesaleStatusCanceled:
		return ErrWholesaleAlreadyCanceled
	case WholesaleStatusPaymentPending:
		return ErrWholesalePaymentPending
	}
	now := time.Now()
	w.Status = WholesaleStatusConfirmed
	w.ReleaseDate = releaseDate
	w.InvoiceNumber = invoiceNumber
	w.ProcessedAt = &now
	w.touch()
	w.AddDomainEvent(NewWholesaleConfirmedEvent(w))
	return nil
}

// Cancel terminates the order from PENDING or PAYMENT_PENDING. The
// caller releases the outgoing reservation of every item; warehouse and
// display pools stay untouched.
func (w *Wholesale) Cancel() error {
	switch w.Status {
	case WholesaleStatusConfirmed:
		return ErrWholesaleAlreadyConfirmed
	case WholesaleStatusCanceled:
		return ErrWholesaleAlreadyCanceled
	}
	now := time.Now()
	w.Status = WholesaleStatusCanceled
	w.ProcessedAt = &now
	w.touch()
	w.AddDomainEvent(NewWholesaleCanceledEvent(w))
	return nil
}

// ReplaceItems swaps the full item list on a PENDING order and returns
// the previous lines. The caller validates and re-books reservations
// atomically: every new quantity is checked before any old reservation
// is released.
func (w *Wholesale) ReplaceItems(inputs []WholesaleItemInput) ([]WholesaleItem, error) {
	switch w.Status {
	case WholesaleStatusConfirmed:
		return nil, ErrWholesaleAlreadyConfirmed
	case WholesaleStatusCanceled:
		return nil, ErrWholesaleAlreadyCanceled
	case WholesaleStatusPaymentPending:
		return nil, ErrWholesalePaymentPending
	}
	if len(inputs) == 0 {
		return nil, ErrWholesaleItemEmpty
	}
	items, err := buildWholesaleItems(w.ID, inputs)
	if err != nil {
		return nil, err
	}
	previous := w.Items
	w.Items = items
	w.recalculateTotal()
	w.touch()
	return previous, nil
}

// OldQuantityFor returns the previously reserved quantity of a product
// among the given lines, zero when the product was not on the order.
func OldQuantityFor(items []WholesaleItem, productID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.ProductID == productID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}

// MarkItemInsufficient flags the line of a product whose warehouse
// deduction failed during ingestion
func (w *Wholesale) MarkItemInsufficient(productID uuid.UUID) {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			w.Items[i].InsufficientStock = true
		}
	}
	w.touch()
}

func (w *Wholesale) touch() {
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}
