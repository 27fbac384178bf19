// Package i2c is a small /dev/i2c-N client used to talk to receivers on the
// u-blox DDC interface.
//
// Every register access is a single I2C_RDWR transaction (register pointer
// write, repeated start, read) so no other master can slip in between the
// pointer write and the data read.
package i2c
