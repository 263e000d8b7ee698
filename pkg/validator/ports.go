package validator

import (
	"regexp"
	"sort"
	"strconv"
)

// Host-port extraction patterns. The host side of host:container
// mappings is captured in the forms runtimeConfig text actually uses:
//
//	-p 8080:80  or  -p "8080:80"
//	"8080:80"   (inside commandOptions lists)
//	 8080:80    (bare, whitespace-delimited)
var portPatterns = []*regexp.Regexp{
	regexp.MustCompile(`-p["\s]+(\d+):\d+`),
	regexp.MustCompile(`"(\d+):\d+"`),
	regexp.MustCompile(`\s(\d+):\d+\s`),
}

// ExtractPorts returns the host ports declared in runtime
// configuration text, deduplicated and sorted ascending so reports
// stay deterministic.
func ExtractPorts(runtimeConfig string) []int {
	seen := make(map[int]bool)
	var ports []int
	for _, re := range portPatterns {
		for _, m := range re.FindAllStringSubmatch(runtimeConfig, -1) {
			port, err := strconv.Atoi(m[1])
			if err != nil || seen[port] {
				continue
			}
			seen[port] = true
			ports = append(ports, port)
		}
	}
	sort.Ints(ports)
	return ports
}
