package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/vendorlink/supplierflow/internal/application/port"
	"github.com/vendorlink/supplierflow/internal/domain/entity"
	"github.com/vendorlink/supplierflow/internal/infrastructure/persistence/sqlite"
)

const supplierColumns = `
	id, code, company_name, business_registration_number, bank_account,
	bank_name, tax_number, legal_representative, registered_address,
	contact_person, contact_phone, contact_email, business_scope,
	supplier_type, website, payment_terms, registered_capital, notes,
	status, created_at, updated_at`

// SupplierRepository implements port.SupplierRepository
type SupplierRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *sqlite.DB, logger *zap.Logger) port.SupplierRepository {
	return &SupplierRepository{db: db, logger: logger}
}

// Create persists a new supplier
func (r *SupplierRepository) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (
			code, company_name, business_registration_number, bank_account,
			bank_name, tax_number, legal_representative, registered_address,
			contact_person, contact_phone, contact_email, business_scope,
			supplier_type, website, payment_terms, registered_capital, notes, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		s.Code, s.CompanyName, s.BusinessRegistrationNumber, s.BankAccount,
		s.BankName, s.TaxNumber, s.LegalRepresentative, s.RegisteredAddress,
		s.ContactPerson, s.ContactPhone, s.ContactEmail, s.BusinessScope,
		s.SupplierType, s.Website, s.PaymentTerms, s.RegisteredCapital, s.Notes, s.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create supplier", zap.Error(err))
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	s.ID = id
	return nil
}

// GetByID retrieves a supplier by ID; returns nil when absent
func (r *SupplierRepository) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	query := `SELECT` + supplierColumns + ` FROM suppliers WHERE id = ?`

	s, err := scanSupplier(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get supplier", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return s, nil
}

// Update persists all mutable profile fields of a supplier
func (r *SupplierRepository) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET
			company_name = ?, business_registration_number = ?, bank_account = ?,
			bank_name = ?, tax_number = ?, legal_representative = ?,
			registered_address = ?, contact_person = ?, contact_phone = ?,
			contact_email = ?, business_scope = ?, supplier_type = ?,
			website = ?, payment_terms = ?, registered_capital = ?, notes = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		s.CompanyName, s.BusinessRegistrationNumber, s.BankAccount,
		s.BankName, s.TaxNumber, s.LegalRepresentative,
		s.RegisteredAddress, s.ContactPerson, s.ContactPhone,
		s.ContactEmail, s.BusinessScope, s.SupplierType,
		s.Website, s.PaymentTerms, s.RegisteredCapital, s.Notes,
		s.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update supplier", zap.Int64("id", s.ID), zap.Error(err))
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	return nil
}

// UpdateStatus updates a supplier's lifecycle status
func (r *SupplierRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE suppliers SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update supplier status", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update supplier status: %w", err)
	}
	return nil
}

// List retrieves suppliers with pagination
func (r *SupplierRepository) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	query := `SELECT` + supplierColumns + ` FROM suppliers ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list suppliers", zap.Error(err))
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSupplier(row rowScanner) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(
		&s.ID, &s.Code, &s.CompanyName, &s.BusinessRegistrationNumber, &s.BankAccount,
		&s.BankName, &s.TaxNumber, &s.LegalRepresentative, &s.RegisteredAddress,
		&s.ContactPerson, &s.ContactPhone, &s.ContactEmail, &s.BusinessScope,
		&s.SupplierType, &s.Website, &s.PaymentTerms, &s.RegisteredCapital, &s.Notes,
		&s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Verify interface compliance
var _ port.SupplierRepository = (*SupplierRepository)(nil)
