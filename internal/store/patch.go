package store

import "dropflow-admin/internal/models"

// Patch application is shared by both backends: present fields overwrite,
// nil fields keep the stored value.

func applyProductPatch(p *models.Product, patch models.ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.SellingPrice != nil {
		p.SellingPrice = *patch.SellingPrice
	}
	if patch.SupplierPrice != nil {
		p.SupplierPrice = *patch.SupplierPrice
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.SupplierID != nil {
		p.SupplierID = *patch.SupplierID
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
}

func applyOrderPatch(o *models.Order, patch models.OrderPatch) {
	if patch.OrderNumber != nil {
		o.OrderNumber = *patch.OrderNumber
	}
	if patch.CustomerName != nil {
		o.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		o.CustomerEmail = *patch.CustomerEmail
	}
	if patch.ShippingAddress != nil {
		o.ShippingAddress = *patch.ShippingAddress
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.Total != nil {
		o.Total = *patch.Total
	}
	if patch.Items != nil {
		o.Items = *patch.Items
	}
}

func applySupplierPatch(s *models.Supplier, patch models.SupplierPatch) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Email != nil {
		s.Email = *patch.Email
	}
	if patch.Contact != nil {
		s.Contact = *patch.Contact
	}
	if patch.Location != nil {
		s.Location = *patch.Location
	}
	if patch.Rating != nil {
		s.Rating = *patch.Rating
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.ShippingTime != nil {
		s.ShippingTime = *patch.ShippingTime
	}
	if patch.Products != nil {
		s.Products = *patch.Products
	}
	if patch.APIEndpoint != nil {
		s.APIEndpoint = *patch.APIEndpoint
	}
}
