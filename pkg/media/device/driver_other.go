//go:build !linux

package device

// Other platforms register no capture drivers: EnumerateDevices reports
// nothing and every capture fails with media.ErrDeviceNotFound.
