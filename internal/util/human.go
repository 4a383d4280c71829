package util

import "fmt"

var units = []string{"KB", "MB", "GB", "TB"}

// Human formats a byte count for the download summary: "512 B", "1.50 KB".
func Human(n int64) string {
	if n < 1<<10 {
		return fmt.Sprintf("%d B", n)
	}

	v := float64(n) / (1 << 10)
	i := 0
	for v >= 1<<10 && i < len(units)-1 {
		v /= 1 << 10
		i++
	}
	return fmt.Sprintf("%.2f %s", v, units[i])
}
