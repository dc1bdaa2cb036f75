package segment

// escape prefixes a GSM 03.38 extension table character.
const escape = 0x1B

// gsmBasic is the GSM 03.38 default alphabet indexed by septet. Index 0x1B is
// the escape code and never maps to a character.
var gsmBasic = [128]rune{
	'@', '£', '$', '¥', 'è', 'é', 'ù', 'ì', 'ò', 'Ç', '\n', 'Ø', 'ø', '\r', 'Å', 'å',
	'Δ', '_', 'Φ', 'Γ', 'Λ', 'Ω', 'Π', 'Ψ', 'Σ', 'Θ', 'Ξ', 0, 'Æ', 'æ', 'ß', 'É',
	' ', '!', '"', '#', '¤', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'¡', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', 'Ä', 'Ö', 'Ñ', 'Ü', '§',
	'¿', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', 'ä', 'ö', 'ñ', 'ü', 'à',
}

// gsmExtension maps the septet following escape to its character.
var gsmExtension = map[byte]rune{
	0x0A: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2F: '\\',
	0x3C: '[',
	0x3D: '~',
	0x3E: ']',
	0x40: '|',
	0x65: '€',
}

var (
	gsmBasicIndex     = make(map[rune]byte, len(gsmBasic))
	gsmExtensionIndex = make(map[rune]byte, len(gsmExtension))
)

func init() {
	for i, r := range gsmBasic {
		if i == escape {
			continue
		}
		gsmBasicIndex[r] = byte(i)
	}
	for code, r := range gsmExtension {
		gsmExtensionIndex[r] = code
	}
}

// gsmUnit returns the one or two septets (one per octet) for r.
func gsmUnit(r rune) ([]byte, bool) {
	if b, ok := gsmBasicIndex[r]; ok {
		return []byte{b}, true
	}
	if b, ok := gsmExtensionIndex[r]; ok {
		return []byte{escape, b}, true
	}
	return nil, false
}

func gsmDecode(b []byte) string {
	out := make([]rune, 0, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i] & 0x7F
		if c == escape {
			if i+1 < len(b) {
				if r, ok := gsmExtension[b[i+1]&0x7F]; ok {
					out = append(out, r)
					i++
					continue
				}
			}
			out = append(out, ' ')
			continue
		}
		out = append(out, gsmBasic[c])
	}
	return string(out)
}
