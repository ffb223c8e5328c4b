package store

import (
	"context"
	"database/sql"
	"time"

	"dropflow-admin/internal/apperr"
	"dropflow-admin/internal/models"
)

const orderColumns = `id, order_number, customer_name, customer_email, shipping_address, status, total, created_at`

func (s *Postgres) queryOrders(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := s.getOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	if orders == nil {
		orders = make([]models.Order, 0)
	}
	return orders, nil
}

func (s *Postgres) getOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT product_id, quantity FROM order_items WHERE order_id = $1 ORDER BY product_id", orderID)
	return items, err
}

// GetOrders retrieves all orders, newest first.
func (s *Postgres) GetOrders(ctx context.Context) ([]models.Order, error) {
	return s.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC, id DESC")
}

// GetOrderByID retrieves an order with its items.
func (s *Postgres) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	order.Items, err = s.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts an order plus its items.
func (s *Postgres) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (order_number, customer_name, customer_email, shipping_address, status, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		order.OrderNumber, order.CustomerName, order.CustomerEmail,
		order.ShippingAddress, order.Status, order.Total,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)",
			order.ID, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateOrder applies a partial update and returns the updated row.
func (s *Postgres) UpdateOrder(ctx context.Context, id int64, patch models.OrderPatch) (*models.Order, error) {
	o, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyOrderPatch(o, patch)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET order_number = $1, customer_name = $2, customer_email = $3,
		    shipping_address = $4, status = $5, total = $6
		WHERE id = $7`,
		o.OrderNumber, o.CustomerName, o.CustomerEmail,
		o.ShippingAddress, o.Status, o.Total, id)
	if err != nil {
		return nil, err
	}

	if patch.Items != nil {
		if _, err = tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
			return nil, err
		}
		for _, item := range o.Items {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)",
				id, item.ProductID, item.Quantity)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}

// DeleteOrder removes an order and its items.
func (s *Postgres) DeleteOrder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("order", id)
	}
	return nil
}

// GetOrdersByStatus retrieves orders with a matching status.
func (s *Postgres) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	return s.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status = $1 ORDER BY created_at DESC, id DESC", status)
}

// GetOrdersByDateRange retrieves orders created within [from, to].
func (s *Postgres) GetOrdersByDateRange(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	return s.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at DESC, id DESC",
		from, to)
}

// GetRecentOrders retrieves the newest orders up to limit.
func (s *Postgres) GetRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	return s.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC, id DESC LIMIT $1", limit)
}

// UpdateOrderStatus sets the status for an order.
func (s *Postgres) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("order", id)
	}
	return nil
}
