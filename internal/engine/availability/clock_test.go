package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"08:30", 510},
		{"20:30", 1230},
		{"23:59", 1439},
		{"", -1},
		{"8:30", 510},
		{"24:00", -1},
		{"12:60", -1},
		{"ab:cd", -1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TimeToMinutes(c.in), c.in)
	}
}

func TestMinutesToTime(t *testing.T) {
	assert.Equal(t, "00:00", MinutesToTime(0))
	assert.Equal(t, "08:05", MinutesToTime(485))
	assert.Equal(t, "19:00", MinutesToTime(1140))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2026-09-01"))
	assert.False(t, ValidDate("2026-13-01"))
	assert.False(t, ValidDate("01-09-2026"))
	assert.False(t, ValidDate(""))
}

func TestSortedDates(t *testing.T) {
	dates := []string{"2026-09-03", "2026-09-01", "2026-09-02", "2026-09-01"}
	assert.Equal(t, []string{"2026-09-01", "2026-09-02", "2026-09-03"}, SortedDates(dates))
}
