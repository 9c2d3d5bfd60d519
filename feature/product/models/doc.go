// Package models defines the gorm model of the product catalogue.
package models
