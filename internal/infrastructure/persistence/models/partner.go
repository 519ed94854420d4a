package models

import "github.com/erp/billing/internal/domain/partner"

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	AggregateModel
	Name    string `gorm:"type:varchar(200);not null"`
	Email   string `gorm:"type:varchar(200);index"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Address:           m.Address,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{Name: c.Name, Email: c.Email, Address: c.Address}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
