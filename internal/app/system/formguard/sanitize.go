package formguard

import "github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/htmlsanitize"

// Sanitize drops <script> blocks with their content, then every other tag,
// decodes entities and trims. Encoded markup is stripped as well, and the
// result is stable: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	return htmlsanitize.Text(s)
}
