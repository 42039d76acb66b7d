package main

// @title Stock Service API
// @version 1.0
// @description Warehouse stock service: tiered quantities, location transfers and conversion rates, with full observability (logging, tracing, metrics)

// @contact.name API Support
// @contact.url http://github.com/tair/warehouse-stock

// @license.name MIT

// @host localhost:8082
// @BasePath /

// @tag.name Inventory
// @tag.description Stock record endpoints

// @tag.name Stock
// @tag.description Deduction and adjustment endpoints

// @tag.name Transfers
// @tag.description Location transfer endpoints

// @tag.name Conversion Rates
// @tag.description Packaging tier conversion endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
