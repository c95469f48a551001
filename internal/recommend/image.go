package recommend

import (
	"fmt"
	"unicode/utf16"
)

const imageCatalogSize = 1000

// ImageURL maps a dish name onto the fixed picsum catalog. The index is a
// signed 32-bit rolling hash (h = h*31 + c) over the name's UTF-16 code
// units, taken absolute and reduced modulo the catalog size.
func ImageURL(name string) string {
	return fmt.Sprintf("https://picsum.photos/id/%d/600/1000", imageIndex(name))
}

func imageIndex(name string) int {
	var h int32
	for _, c := range utf16.Encode([]rune(name)) {
		h = (h << 5) - h + int32(c)
	}
	// widen first so the minimum int32 does not overflow on negation
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return int(n % imageCatalogSize)
}
