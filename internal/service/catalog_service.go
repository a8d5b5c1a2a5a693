package service

import (
	"context"
	"fmt"
	"time"

	"clinicpos/internal/billing"
	"clinicpos/internal/model"
	"clinicpos/internal/repository"
	ws "clinicpos/internal/websocket"

	"github.com/google/uuid"
)

type CatalogItemRequest struct {
	Brand      string `json:"brand" binding:"required"`
	Model      string `json:"model" binding:"required"`
	SerialNo   string `json:"serial_no" binding:"required"`
	HSN        string `json:"hsn"`
	GSTRatePct int    `json:"gst_rate_pct"`
	MRP        string `json:"mrp" binding:"required"`
}

type CatalogItemResponse struct {
	ID         string `json:"id"`
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	SerialNo   string `json:"serial_no"`
	HSN        string `json:"hsn"`
	GSTRatePct int    `json:"gst_rate_pct"`
	MRP        string `json:"mrp"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

type CatalogService interface {
	CreateItem(ctx context.Context, userID string, req CatalogItemRequest) (CatalogItemResponse, error)
	UpdateItem(ctx context.Context, userID string, id string, req CatalogItemRequest) (CatalogItemResponse, error)
	DeleteItem(ctx context.Context, userID string, id string) error
	GetItem(ctx context.Context, id string) (CatalogItemResponse, error)
	ListItems(ctx context.Context, status, search string, page, limit int) ([]CatalogItemResponse, int64, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	auditRepo   repository.AuditRepository
	hub         *ws.Hub
}

func NewCatalogService(catalogRepo repository.CatalogRepository, auditRepo repository.AuditRepository, hub *ws.Hub) CatalogService {
	return &catalogService{catalogRepo: catalogRepo, auditRepo: auditRepo, hub: hub}
}

func (s *catalogService) CreateItem(ctx context.Context, userID string, req CatalogItemRequest) (CatalogItemResponse, error) {
	item, err := s.itemFromRequest(req)
	if err != nil {
		return CatalogItemResponse{}, err
	}
	item.Status = model.ItemAvailable

	if err := s.catalogRepo.Create(ctx, item); err != nil {
		return CatalogItemResponse{}, fmt.Errorf("failed to create item: %w", err)
	}

	s.writeAudit(ctx, userID, model.ActionCreateItem, *item)
	broadcast(s.hub, "catalog_updated", map[string]interface{}{"item_id": item.ID.String(), "status": item.Status})
	return toCatalogItemResponse(*item), nil
}

func (s *catalogService) UpdateItem(ctx context.Context, userID string, id string, req CatalogItemRequest) (CatalogItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return CatalogItemResponse{}, fmt.Errorf("invalid item id: %w", err)
	}

	existing, err := s.catalogRepo.FindByID(ctx, itemID)
	if err != nil {
		return CatalogItemResponse{}, fmt.Errorf("item not found: %w", err)
	}
	// Pricing fields on a SOLD item are frozen; the line already issued
	// recorded them.
	if existing.Status == model.ItemSold {
		return CatalogItemResponse{}, fmt.Errorf("cannot update a sold item")
	}

	updated, err := s.itemFromRequest(req)
	if err != nil {
		return CatalogItemResponse{}, err
	}
	existing.Brand = updated.Brand
	existing.Model = updated.Model
	existing.SerialNo = updated.SerialNo
	existing.HSN = updated.HSN
	existing.GSTRatePct = updated.GSTRatePct
	existing.MRP = updated.MRP

	if err := s.catalogRepo.Update(ctx, existing); err != nil {
		return CatalogItemResponse{}, fmt.Errorf("failed to update item: %w", err)
	}

	s.writeAudit(ctx, userID, model.ActionUpdateItem, *existing)
	broadcast(s.hub, "catalog_updated", map[string]interface{}{"item_id": existing.ID.String(), "status": existing.Status})
	return toCatalogItemResponse(*existing), nil
}

func (s *catalogService) DeleteItem(ctx context.Context, userID string, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid item id: %w", err)
	}

	item, err := s.catalogRepo.FindByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("item not found: %w", err)
	}
	if item.Status == model.ItemSold {
		return fmt.Errorf("cannot delete a sold item")
	}

	if err := s.catalogRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.writeAudit(ctx, userID, model.ActionDeleteItem, *item)
	broadcast(s.hub, "catalog_updated", map[string]interface{}{"item_id": id, "deleted": true})
	return nil
}

func (s *catalogService) GetItem(ctx context.Context, id string) (CatalogItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return CatalogItemResponse{}, fmt.Errorf("invalid item id: %w", err)
	}
	item, err := s.catalogRepo.FindByID(ctx, itemID)
	if err != nil {
		return CatalogItemResponse{}, fmt.Errorf("item not found: %w", err)
	}
	return toCatalogItemResponse(*item), nil
}

func (s *catalogService) ListItems(ctx context.Context, status, search string, page, limit int) ([]CatalogItemResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.catalogRepo.List(ctx, status, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch items: %w", err)
	}

	result := make([]CatalogItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toCatalogItemResponse(item))
	}
	return result, total, nil
}

func (s *catalogService) itemFromRequest(req CatalogItemRequest) (*model.CatalogItem, error) {
	mrp, err := parseOptionalAmount(req.MRP, "mrp")
	if err != nil {
		return nil, err
	}
	ratePct := req.GSTRatePct
	if ratePct == 0 {
		ratePct = 18
	}
	if !billing.ValidGSTRate(ratePct) {
		return nil, fmt.Errorf("unsupported gst rate %d", ratePct)
	}
	return &model.CatalogItem{
		Brand:      req.Brand,
		Model:      req.Model,
		SerialNo:   req.SerialNo,
		HSN:        req.HSN,
		GSTRatePct: ratePct,
		MRP:        mrp,
	}, nil
}

func (s *catalogService) writeAudit(ctx context.Context, userID, action string, item model.CatalogItem) {
	entry := model.AuditLog{
		Action:     action,
		EntityID:   item.ID.String(),
		EntityName: item.Brand + " " + item.Model,
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}
	_ = s.auditRepo.Log(ctx, &entry)
}

func toCatalogItemResponse(item model.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:         item.ID.String(),
		Brand:      item.Brand,
		Model:      item.Model,
		SerialNo:   item.SerialNo,
		HSN:        item.HSN,
		GSTRatePct: item.GSTRatePct,
		MRP:        item.MRP.StringFixed(2),
		Status:     item.Status,
		CreatedAt:  item.CreatedAt.Format(time.RFC3339),
	}
}
