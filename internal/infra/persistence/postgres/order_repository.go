package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the domain.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func preloadOrderItems(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// Create persists the order together with its items.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)
	db := repo.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCustomerNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	if len(orderM.Items) > 0 {
		for _, itemM := range orderM.Items {
			itemM.OrderID = orderM.ID
		}
		if err := db.Create(&orderM.Items).Error; err != nil {
			if isForeignKeyConstraintViolation(err) {
				return repository.ErrProductNotFound
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to create order items")
		}
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i, itemM := range orderM.Items {
		order.Items[i].ID = itemM.ID
		order.Items[i].OrderID = itemM.OrderID
	}

	return nil
}

// FindByID retrieves an order with its items.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.db.WithContext(ctx).
		Preload("Items", preloadOrderItems).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toOrderDomain(&orderM), nil
}

// List returns a filtered page of orders with items, newest first.
func (repo *orderRepository) List(ctx context.Context, filter entity.OrderFilter) (*entity.Page[*entity.Order], error) {
	query := repo.db.WithContext(ctx).Model(&model.OrderModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	var orderModels []*model.OrderModel
	if err := query.
		Preload("Items", preloadOrderItems).
		Order("created_at DESC").Order("id DESC").
		Offset(filter.Page.Offset()).Limit(filter.Page.PageSize).
		Find(&orderModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return &entity.Page[*entity.Order]{
		Items:    orders,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

// UpdateStatus moves the order from one status to another, guarded by the expected current status.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus, payment entity.PaymentStatus) error {
	db := repo.db.WithContext(ctx)

	result := db.Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":         string(to),
			"payment_status": string(payment),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&model.OrderModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errors.WithStack(err)
	}
	if count == 0 {
		return repository.ErrOrderNotFound
	}

	return repository.ErrOrderStatusChanged
}

// Count returns the number of orders, optionally restricted to a status.
func (repo *orderRepository) Count(ctx context.Context, status *entity.OrderStatus) (int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.OrderModel{})
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// --- Mapper Functions ---

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]*entity.OrderItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, &entity.OrderItem{
			ID:          itemM.ID,
			OrderID:     itemM.OrderID,
			ProductID:   itemM.ProductID,
			ProductName: itemM.ProductName,
			Quantity:    itemM.Quantity,
			Price:       itemM.Price,
		})
	}

	return &entity.Order{
		ID:              data.ID,
		CustomerID:      data.CustomerID,
		Status:          entity.OrderStatus(data.Status),
		Total:           data.Total,
		ShippingFee:     data.ShippingFee,
		ShippingAddress: data.ShippingAddress,
		PaymentMethod:   entity.PaymentMethod(data.PaymentMethod),
		PaymentStatus:   entity.PaymentStatus(data.PaymentStatus),
		Items:           items,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]*model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, &model.OrderItemModel{
			ID:          item.ID,
			OrderID:     data.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	return &model.OrderModel{
		ID:              data.ID,
		CustomerID:      data.CustomerID,
		Status:          string(data.Status),
		Total:           data.Total,
		ShippingFee:     data.ShippingFee,
		ShippingAddress: data.ShippingAddress,
		PaymentMethod:   string(data.PaymentMethod),
		PaymentStatus:   string(data.PaymentStatus),
		Items:           items,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
