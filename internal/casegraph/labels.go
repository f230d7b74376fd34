package casegraph

import "strconv"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SpecimenLabel 0 -> "Specimen 1".
func SpecimenLabel(index int) string {
	return "Specimen " + strconv.Itoa(index+1)
}

// BlockLabel bijective base-26: 0 -> "Block A", 25 -> "Block Z", 26 -> "Block AA".
func BlockLabel(index int) string {
	if index < 0 {
		index = 0
	}
	var buf []byte
	for cursor := index; cursor >= 0; cursor = cursor/26 - 1 {
		buf = append([]byte{alphabet[cursor%26]}, buf...)
	}
	return "Block " + string(buf)
}

// SlideLabel 0 -> "Slide 1".
func SlideLabel(index int) string {
	return "Slide " + strconv.Itoa(index+1)
}
