package geometry

// cardinals covers the 16-point compass rose, one entry per 22.5° sector
// starting at due north.
var cardinals = [16]string{
	"north",
	"north north east",
	"north east",
	"east north east",
	"east",
	"east south east",
	"south east",
	"south south east",
	"south",
	"south south west",
	"south west",
	"west south west",
	"west",
	"west north west",
	"north west",
	"north north west",
}

// Cardinal returns the spoken compass direction for a bearing in degrees.
// Bearings outside [0, 360) are wrapped.
func Cardinal(bearing float64) string {
	idx := int(bearing/22.5) % 16
	if idx < 0 {
		idx += 16
	}
	return cardinals[idx]
}
