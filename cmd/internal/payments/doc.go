// Package payments implements payment-order handling: the payment store
// boundary, the gateway client, and the service that creates orders,
// verifies gateway signatures, and manages payment records.
//
// Amounts are minor currency units (paise, cents) end to end; the gateway
// wire format already works this way and floats never touch money here.
package payments
