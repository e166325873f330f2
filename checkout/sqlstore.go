package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"checkout-service/models"
)

// SQLStore implements Store over a MySQL database/sql pool.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Begin(ctx context.Context) (StoreTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &sqlTx{tx: tx}, nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) LockProducts(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, name, price, sale_price, stock, status, published
		FROM products
		WHERE id IN (%s) AND status = 'active' AND published = 1
		FOR UPDATE
	`, placeholders)

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.SalePrice, &p.Stock, &p.Status, &p.Published); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (t *sqlTx) FindCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	var expiresAt sql.NullTime
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, code, discount_type, amount, min_spend, active, expires_at
		FROM coupons
		WHERE code = ?
	`, code).Scan(&c.ID, &c.Code, &c.DiscountType, &c.Amount, &c.MinSpend, &c.Active, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	if expiresAt.Valid {
		c.ExpiresAt = &expiresAt.Time
	}
	return &c, nil
}

func (t *sqlTx) CreateOrder(ctx context.Context, order *models.Order) (int64, error) {
	couponCode := sql.NullString{String: order.CouponCode, Valid: order.CouponCode != ""}

	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders
			(invoice_no, user_id, customer_name, customer_phone, customer_address,
			 notes, payment_method, total_amount, coupon_code, discount_amount,
			 status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, order.InvoiceNo, order.UserID, order.CustomerName, order.CustomerPhone,
		order.CustomerAddress, order.Notes, order.PaymentMethod, order.TotalAmount,
		couponCode, order.DiscountAmount, order.Status, order.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order id: %w", err)
	}
	return id, nil
}

func (t *sqlTx) CreateOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ")
	args := make([]interface{}, 0, len(items)*4)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, orderID, item.ProductID, item.Quantity, item.Price)
	}

	if _, err := t.tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func (t *sqlTx) DecrementStock(ctx context.Context, productID int64, qty int) error {
	// The stock >= ? guard is a second line of defense under the row lock;
	// affecting zero rows here means sufficiency was not actually checked.
	result, err := t.tx.ExecContext(ctx, `
		UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?
	`, qty, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock for product %d: %w", productID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock for product %d: %w", productID, err)
	}
	if affected == 0 {
		return fmt.Errorf("decrement stock for product %d: no row updated", productID)
	}
	return nil
}

func (t *sqlTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback() error {
	return t.tx.Rollback()
}
