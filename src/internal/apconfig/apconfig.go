// Package apconfig maps radio frequencies to Wi-Fi channels and corrects
// hotspot configurations the radio cannot honour.
package apconfig

import (
	"sort"

	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/log"
)

// FrequencyToChannel returns the channel number for a centre frequency in
// MHz, or -1 if the frequency is outside the 2.4 GHz and 5 GHz bands.
func FrequencyToChannel(freq int) int {
	switch {
	case freq >= 2412 && freq <= 2472:
		return (freq - 2407) / 5
	case freq == 2484:
		return 14
	case freq >= 5170 && freq <= 5825:
		return (freq - 5000) / 5
	default:
		return -1
	}
}

// FrequenciesToChannels converts a frequency list, dropping unknown ones.
func FrequenciesToChannels(freqs []int) []int {
	channels := make([]int, 0, len(freqs))
	for _, f := range freqs {
		if ch := FrequencyToChannel(f); ch != -1 {
			channels = append(channels, ch)
		}
	}
	return channels
}

// BuildChannelsTable builds the band to channels table from the frequencies
// the radio reports for each band. Channels are sorted and deduplicated.
func BuildChannelsTable(freqs map[config.Band][]int) config.ChannelsTable {
	table := make(config.ChannelsTable, len(freqs))
	for band, list := range freqs {
		channels := FrequenciesToChannels(list)
		sort.Ints(channels)
		table[band] = dedup(channels)
	}
	return table
}

// ValidateBandChannel resets cfg to the 2.4 GHz default channel when its
// channel is not supported in its band. It reports whether cfg changed.
func ValidateBandChannel(cfg *config.HotspotConfig, table config.ChannelsTable) bool {
	for _, ch := range table[cfg.Band] {
		if ch == cfg.Channel {
			return false
		}
	}

	log.Warnf("Channel %d is not available in band %s, falling back to %s channel %d",
		cfg.Channel, cfg.Band, config.Band24GHz, config.DefaultChannel)
	cfg.Band = config.Band24GHz
	cfg.Channel = config.DefaultChannel
	return true
}

func dedup(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
