package release

import "strconv"

// versionParts is the number of components a frozen version always has.
const versionParts = 3

// Split breaks a version string into major, minor and bugfix numbers.
// Only the leading numeric dot-separated components count; parsing stops at
// the first pre/post-release qualifier ("1.2rc1" reads as 1.2). Missing
// components default to zero, extra ones ("1.2.3.4") are dropped:
//
//	Split("1.2.3") == (1, 2, 3)
//	Split("1.2")   == (1, 2, 0)
//	Split("1.2rc1") == (1, 2, 0)
//	Split("1")     == (1, 0, 0)
//	Split("")      == (0, 0, 0)
func Split(version string) (major, minor, bugfix int) {
	parts := make([]int, 0, versionParts)

	for _, component := range splitDots(version) {
		digits := leadingDigits(component)
		if digits == "" {
			// A component with no numeric prefix ends the release segment.
			break
		}

		number, err := strconv.Atoi(digits)
		if err != nil {
			break
		}

		parts = append(parts, number)

		if len(digits) != len(component) || len(parts) == versionParts {
			// A trailing qualifier like "rc1" closes the release segment too.
			break
		}
	}

	for len(parts) < versionParts {
		parts = append(parts, 0)
	}

	return parts[0], parts[1], parts[2]
}

// splitDots splits on '.' without producing a single empty component for "".
func splitDots(s string) []string {
	if s == "" {
		return nil
	}

	var (
		components []string
		start      int
	)

	for i := 0; i < len(s); i++ {
		if s[i] != '.' {
			continue
		}

		components = append(components, s[start:i])
		start = i + 1
	}

	return append(components, s[start:])
}

// leadingDigits returns the numeric prefix of a version component.
func leadingDigits(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return s[:i]
		}
	}

	return s
}
