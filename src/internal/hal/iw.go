package hal

import (
	"bufio"
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/maksimkurb/keen-softap/src/internal/config"
)

// CommandRunner runs helper programs.
type CommandRunner interface {
	Output(name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// BandForFrequency returns the band of a centre frequency, or "" for
// frequencies outside 2.4 GHz and 5 GHz.
func BandForFrequency(freq int) config.Band {
	switch {
	case freq >= 2400 && freq < 2500:
		return config.Band24GHz
	case freq >= 4900 && freq < 5900:
		return config.Band5GHz
	default:
		return ""
	}
}

// ParseIwFrequencies extracts the usable frequencies from `iw phy <phy> info`
// output, grouped by band. Disabled and no-IR frequencies are skipped.
func ParseIwFrequencies(output []byte) map[config.Band][]int {
	result := make(map[config.Band][]int)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "* ") || !strings.Contains(line, " MHz") {
			continue
		}
		if strings.Contains(line, "disabled") || strings.Contains(line, "no IR") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 || fields[2] != "MHz" {
			continue
		}
		mhz, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}

		freq := int(mhz)
		if band := BandForFrequency(freq); band != "" {
			result[band] = append(result[band], freq)
		}
	}
	return result
}
