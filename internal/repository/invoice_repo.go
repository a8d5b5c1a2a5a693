package repository

import (
	"context"

	"clinicpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceListFilter narrows List queries.
type InvoiceListFilter struct {
	Kind      string // SALES, SERVICE or empty for all
	Number    string // partial match on invoice number
	PatientID *uuid.UUID
	Page      int
	Limit     int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListNumbersByPrefix(ctx context.Context, prefix string) ([]string, error)
	AddPayment(ctx context.Context, payment *model.PaymentRecord) error
	FindPayment(ctx context.Context, invoiceID, paymentID uuid.UUID) (*model.PaymentRecord, error)
	DeletePayment(ctx context.Context, paymentID uuid.UUID) error
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).
		Preload("Lines").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Kind != "" {
			q = q.Where("kind = ?", filter.Kind)
		}
		if filter.Number != "" {
			q = q.Where("number LIKE ?", "%"+filter.Number+"%")
		}
		if filter.PatientID != nil {
			q = q.Where("patient_id = ?", *filter.PatientID)
		}
		return q
	}

	if err := apply(db.Model(&model.Invoice{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := apply(db.Preload("Payments")).
		Order("created_at desc").Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", id).Delete(&model.InvoiceLine{}).Error; err != nil {
		return err
	}
	if err := db.Where("invoice_id = ?", id).Delete(&model.PaymentRecord{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Invoice{}).Error
}

func (r *invoiceRepository) ListNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("number LIKE ?", prefix+"%").
		Pluck("number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

func (r *invoiceRepository) AddPayment(ctx context.Context, payment *model.PaymentRecord) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *invoiceRepository) FindPayment(ctx context.Context, invoiceID, paymentID uuid.UUID) (*model.PaymentRecord, error) {
	var payment model.PaymentRecord
	if err := GetDB(ctx, r.db).
		Where("id = ? AND invoice_id = ?", paymentID, invoiceID).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *invoiceRepository) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", paymentID).Delete(&model.PaymentRecord{}).Error
}
