//go:build fieldprojdebug

package projection

const debugAssertions = true
