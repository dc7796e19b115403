package colorspace

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Illuminant 标定光源（EXIF LightSource 编码）
type Illuminant uint16

const (
	IlluminantUnknown     Illuminant = 0
	IlluminantDaylight    Illuminant = 1
	IlluminantFluorescent Illuminant = 2
	IlluminantTungsten    Illuminant = 3
	IlluminantFlash       Illuminant = 4
	IlluminantStdA        Illuminant = 17
	IlluminantStdB        Illuminant = 18
	IlluminantStdC        Illuminant = 19
	IlluminantD55         Illuminant = 20
	IlluminantD65         Illuminant = 21
	IlluminantD75         Illuminant = 22
	IlluminantD50         Illuminant = 23
)

var illuminantNames = map[Illuminant]string{
	IlluminantUnknown:     "Unknown",
	IlluminantDaylight:    "Daylight",
	IlluminantFluorescent: "Fluorescent",
	IlluminantTungsten:    "Tungsten",
	IlluminantFlash:       "Flash",
	IlluminantStdA:        "A",
	IlluminantStdB:        "B",
	IlluminantStdC:        "C",
	IlluminantD55:         "D55",
	IlluminantD65:         "D65",
	IlluminantD75:         "D75",
	IlluminantD50:         "D50",
}

func (il Illuminant) String() string {
	if name, ok := illuminantNames[il]; ok {
		return name
	}
	return fmt.Sprintf("Illuminant(%d)", uint16(il))
}

// ParseIlluminant 按名称（大小写不敏感）查找光源
func ParseIlluminant(name string) (Illuminant, error) {
	entry, ok := lo.FindKeyBy(illuminantNames, func(_ Illuminant, v string) bool {
		return strings.EqualFold(v, name)
	})
	if !ok {
		return IlluminantUnknown, fmt.Errorf("unknown illuminant %q", name)
	}
	return entry, nil
}
