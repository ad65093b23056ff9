package declination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		text    string
		degrees float64
		valid   bool
	}{
		"default":         {text: " 00:00:00.00", degrees: 0, valid: true},
		"south":           {text: "-23:30:00", degrees: -23.5, valid: true},
		"north with sign": {text: "+10:15:36", degrees: 10.26, valid: true},
		"degrees only":    {text: "45", degrees: 45, valid: true},
		"decimal degrees": {text: "-12.25", degrees: -12.25, valid: true},
		"empty":           {text: "  ", valid: false},
		"letters":         {text: "ab:cd", valid: false},
		"too many fields": {text: "1:2:3:4", valid: false},
		"minutes too big": {text: "10:60:00", valid: false},
		"beyond pole":     {text: "91:00:00", valid: false},
		"fraction early":  {text: "10.5:30", valid: false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d := Parse(tc.text)
			assert.Equal(t, tc.valid, d.Valid)
			assert.Equal(t, tc.text, d.Formatted)
			if tc.valid {
				assert.InDelta(t, tc.degrees, d.Degrees, 1e-9)
				assert.InDelta(t, tc.degrees*3600*1000, d.Mas, 1e-3)
				assert.Empty(t, d.Error)
			} else {
				assert.NotEmpty(t, d.Error)
			}
		})
	}
}

func TestReformat(t *testing.T) {
	assert.Equal(t, "-23:30:00.00", Reformat("-23.5").Formatted)
	assert.Equal(t, " 10:15:36.00", Reformat("10:15:36").Formatted)
	assert.Equal(t, " 01:00:00.00", Reformat("0:59:59.999").Formatted)
	assert.Equal(t, "xyz", Reformat("xyz").Formatted)
}

func TestVisible(t *testing.T) {
	ok, msg := Parse("-60:00:00").Visible()
	assert.True(t, ok)
	assert.Empty(t, msg)

	ok, msg = Parse("70:00:00").Visible()
	assert.False(t, ok)
	assert.Equal(t, "Source at declination  70:00:00.00 is not visible.", msg)
}
