//go:build !linux

package args

const oDirect = 0
