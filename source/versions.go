package source

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

const releaseDateLayout = "2006-01-02"

// Versions is the shape of schema.org's versions.json.
type Versions struct {
	SchemaVersion string            `json:"schemaversion"`
	ReleaseLog    map[string]string `json:"releaseLog"`
}

// SelectVersion returns the newest version whose release date is not after
// now. Entries with unparseable dates are ignored. When the release log is
// empty the declared schemaversion is used.
func SelectVersion(v Versions, now time.Time) (string, error) {
	type release struct {
		version string
		date    time.Time
	}

	var released []release
	for version, date := range v.ReleaseLog {
		d, err := time.Parse(releaseDateLayout, date)
		if err != nil {
			continue
		}
		if d.After(now) {
			continue
		}
		released = append(released, release{version: version, date: d})
	}

	if len(released) == 0 {
		if len(v.ReleaseLog) == 0 && v.SchemaVersion != "" {
			return v.SchemaVersion, nil
		}
		return "", fmt.Errorf("%w on or before %s", ErrNoVersion, now.Format(releaseDateLayout))
	}

	slices.SortFunc(released, func(a, b release) int {
		if c := b.date.Compare(a.date); c != 0 {
			return c
		}
		return CompareVersions(b.version, a.version)
	})
	return released[0].version, nil
}

// CompareVersions orders dotted version strings segment by segment, numerically
// where both segments are numbers. Missing segments count as zero.
func CompareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < max(len(as), len(bs)); i++ {
		x, y := segment(as, i), segment(bs, i)
		xn, xerr := strconv.Atoi(x)
		yn, yerr := strconv.Atoi(y)
		switch {
		case xerr == nil && yerr == nil:
			if xn != yn {
				if xn < yn {
					return -1
				}
				return 1
			}
		default:
			if c := strings.Compare(x, y); c != 0 {
				return c
			}
		}
	}
	return 0
}

func segment(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return "0"
}
