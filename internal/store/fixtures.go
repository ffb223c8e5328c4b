package store

import (
	"context"
	"time"

	"dropflow-admin/internal/models"
)

// SeedDemoData loads the mock dataset the memory backend ships with.
func SeedDemoData(ctx context.Context, m *Memory) error {
	now := time.Now()

	suppliers := []models.Supplier{
		{
			Name:         "Tech Solutions Inc",
			Email:        "contact@techsolutions.com",
			Contact:      "+1-555-0101",
			Location:     "New York, NY",
			Rating:       4.5,
			Status:       "active",
			ShippingTime: "3-5 business days",
			Products:     []string{"Software", "Hardware"},
			APIEndpoint:  "https://api.techsolutions.com",
		},
		{
			Name:         "Global Supplies Co",
			Email:        "info@globalsupplies.com",
			Contact:      "+1-555-0102",
			Location:     "Los Angeles, CA",
			Rating:       4.2,
			Status:       "active",
			ShippingTime: "5-7 business days",
			Products:     []string{"Office Supplies", "Equipment"},
		},
		{
			Name:         "Premium Parts Ltd",
			Email:        "sales@premiumparts.com",
			Contact:      "+1-555-0103",
			Location:     "Chicago, IL",
			Rating:       4.8,
			Status:       "active",
			ShippingTime: "2-4 business days",
			Products:     []string{"Automotive Parts", "Industrial"},
			APIEndpoint:  "https://api.premiumparts.com",
		},
	}
	for i := range suppliers {
		if err := m.CreateSupplier(ctx, &suppliers[i]); err != nil {
			return err
		}
	}

	products := []models.Product{
		{
			Name:          "Wireless Earbuds Pro",
			SKU:           "WEP-001",
			Description:   "Noise-cancelling wireless earbuds with charging case",
			Category:      "Electronics",
			SellingPrice:  79.99,
			SupplierPrice: 32.50,
			Stock:         42,
			SupplierID:    suppliers[0].ID,
			Images:        []string{"https://cdn.example.com/img/wep-001.jpg"},
		},
		{
			Name:          "Ergonomic Desk Chair",
			SKU:           "EDC-014",
			Description:   "Adjustable mesh-back office chair",
			Category:      "Office",
			SellingPrice:  189.00,
			SupplierPrice: 95.00,
			Stock:         7,
			SupplierID:    suppliers[1].ID,
		},
		{
			Name:          "LED Desk Lamp",
			SKU:           "LDL-220",
			Description:   "Dimmable LED lamp with USB charging port",
			Category:      "Office",
			SellingPrice:  34.95,
			SupplierPrice: 12.80,
			Stock:         0,
			SupplierID:    suppliers[1].ID,
		},
		{
			Name:          "Car Phone Mount",
			SKU:           "CPM-307",
			Description:   "Magnetic dashboard phone mount",
			Category:      "Automotive",
			SellingPrice:  18.50,
			SupplierPrice: 6.25,
			Stock:         120,
			SupplierID:    suppliers[2].ID,
		},
	}
	for i := range products {
		if err := m.CreateProduct(ctx, &products[i]); err != nil {
			return err
		}
	}

	orders := []models.Order{
		{
			OrderNumber:     "ORD-2025-000112",
			CustomerName:    "Dana Whitfield",
			CustomerEmail:   "dana.whitfield@example.com",
			ShippingAddress: "18 Maple Ave, Austin, TX 78701",
			Status:          models.OrderStatusPending,
			Total:           98.49,
			Items: []models.OrderItem{
				{ProductID: products[0].ID, Quantity: 1},
				{ProductID: products[3].ID, Quantity: 1},
			},
			CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			OrderNumber:     "ORD-2025-000113",
			CustomerName:    "Marcus Lee",
			CustomerEmail:   "marcus.lee@example.com",
			ShippingAddress: "501 Ocean Dr, Miami, FL 33139",
			Status:          models.OrderStatusShipped,
			Total:           189.00,
			Items: []models.OrderItem{
				{ProductID: products[1].ID, Quantity: 1},
			},
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			OrderNumber:     "ORD-2025-000114",
			CustomerName:    "Priya Raman",
			CustomerEmail:   "priya.raman@example.com",
			ShippingAddress: "77 King St, Toronto, Canada",
			Status:          models.OrderStatusCancelled,
			Total:           34.95,
			Items: []models.OrderItem{
				{ProductID: products[2].ID, Quantity: 1},
			},
			CreatedAt: now.Add(-2 * time.Hour),
		},
	}
	for i := range orders {
		if err := m.CreateOrder(ctx, &orders[i]); err != nil {
			return err
		}
	}

	return nil
}
