package entity

import "time"

// Kind tipo de solicitud. El conjunto es cerrado.
type Kind string

const (
	KindPasswordReset Kind = "password_reset"
	KindRegistration  Kind = "registration"
	KindDocument      Kind = "document"
	KindReport        Kind = "report"
	KindOrderBatch    Kind = "order_batch"
)

// Kinds devuelve todos los tipos en orden estable.
func Kinds() []Kind {
	return []Kind{KindPasswordReset, KindRegistration, KindDocument, KindReport, KindOrderBatch}
}

// Valid indica si k es un tipo conocido.
func (k Kind) Valid() bool {
	for _, v := range Kinds() {
		if v == k {
			return true
		}
	}
	return false
}

// Status estado de una solicitud. approved y rejected son terminales.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal indica si no admite más transiciones.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// Request estado genérico de una solicitud; Payload varía según Kind.
type Request struct {
	ID         int64
	Kind       Kind
	Status     Status
	CreatedAt  time.Time
	ResolvedAt *time.Time
	Payload    Payload
}

// Payload datos específicos del tipo de solicitud.
type Payload interface {
	Kind() Kind
}

// PasswordResetPayload cambio de contraseña pendiente.
type PasswordResetPayload struct {
	UserName        string
	Email           string
	NewPasswordHash string
}

func (PasswordResetPayload) Kind() Kind { return KindPasswordReset }

// RegistrationPayload alta de usuario pendiente.
type RegistrationPayload struct {
	Name         string
	Email        string
	PasswordHash string
}

func (RegistrationPayload) Kind() Kind { return KindRegistration }

// FilePayload documento (POP) o informe adjunto. Category es KindDocument o KindReport.
type FilePayload struct {
	Category    Kind
	Title       string
	Description string
	FileName    string
	FilePath    string
}

func (p FilePayload) Kind() Kind { return p.Category }

// OrderBatchPayload lote de órdenes en staging.
type OrderBatchPayload struct {
	Origin        Flow
	Description   string
	TotalRowCount int
}

func (OrderBatchPayload) Kind() Kind { return KindOrderBatch }

// OrderBatch devuelve el payload de lote o false si la solicitud es de otro tipo.
func (r *Request) OrderBatch() (OrderBatchPayload, bool) {
	p, ok := r.Payload.(OrderBatchPayload)
	return p, ok
}

// File devuelve el payload de archivo o false si la solicitud no lo tiene.
func (r *Request) File() (FilePayload, bool) {
	p, ok := r.Payload.(FilePayload)
	return p, ok
}
