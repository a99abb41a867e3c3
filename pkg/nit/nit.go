// Package nit formatea el NIT colombiano que las empresas registran, validando el
// dígito de verificación (módulo 11, DIAN).
package nit

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos aplicados a los 9 dígitos base, de izquierda a derecha.
var weights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// VerificationDigit calcula el dígito de verificación de los 9 primeros dígitos de taxID.
func VerificationDigit(taxID string) (byte, error) {
	digits := onlyDigits(taxID)
	if len(digits) < 9 {
		return 0, fmt.Errorf("nit: se requieren 9 dígitos, se encontraron %d", len(digits))
	}
	var sum int
	for i, d := range digits[:9] {
		sum += int(d-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return byte('0' + r), nil
	}
	return byte('0' + 11 - r), nil
}

// Format devuelve "900.123.456-8" cuando taxID trae 10 dígitos con verificación correcta.
// Cualquier otro valor se devuelve sin cambios (solo sin espacios alrededor).
func Format(taxID string) string {
	trimmed := strings.TrimSpace(taxID)
	digits := onlyDigits(trimmed)
	if len(digits) != 10 {
		return trimmed
	}
	dv, err := VerificationDigit(string(digits))
	if err != nil || dv != digits[9] {
		return trimmed
	}
	base := string(digits[:9])
	return base[0:3] + "." + base[3:6] + "." + base[6:9] + "-" + string(dv)
}

func onlyDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
