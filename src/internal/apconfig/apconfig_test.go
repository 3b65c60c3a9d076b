package apconfig

import (
	"reflect"
	"testing"

	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/log"
)

func init() {
	log.DisableLogs()
}

func TestFrequencyToChannel(t *testing.T) {
	tests := []struct {
		freq int
		want int
	}{
		{2412, 1},
		{2437, 6},
		{2472, 13},
		{2484, 14},
		{2407, -1},
		{2477, -1},
		{5170, 34},
		{5180, 36},
		{5825, 165},
		{5830, -1},
		{5955, -1},
		{0, -1},
	}

	for _, tt := range tests {
		if got := FrequencyToChannel(tt.freq); got != tt.want {
			t.Errorf("FrequencyToChannel(%d) = %d, want %d", tt.freq, got, tt.want)
		}
	}
}

func TestFrequenciesToChannels_DropsUnknown(t *testing.T) {
	got := FrequenciesToChannels([]int{2412, 9999, 5180, 60480})
	if !reflect.DeepEqual(got, []int{1, 36}) {
		t.Errorf("FrequenciesToChannels() = %v", got)
	}
}

func TestBuildChannelsTable(t *testing.T) {
	table := BuildChannelsTable(map[config.Band][]int{
		config.Band24GHz: {2462, 2412, 2437, 2437},
		config.Band5GHz:  {5200, 5180, 6000},
	})

	if !reflect.DeepEqual(table[config.Band24GHz], []int{1, 6, 11}) {
		t.Errorf("2.4GHz channels = %v", table[config.Band24GHz])
	}
	if !reflect.DeepEqual(table[config.Band5GHz], []int{36, 40}) {
		t.Errorf("5GHz channels = %v", table[config.Band5GHz])
	}
}

func TestValidateBandChannel(t *testing.T) {
	table := config.ChannelsTable{
		config.Band24GHz: {1, 2, 3, 4, 5, 6, 7},
		config.Band5GHz:  {36, 40},
	}
	fallback := config.HotspotConfig{Band: config.Band24GHz, Channel: config.DefaultChannel}

	tests := []struct {
		name    string
		in      config.HotspotConfig
		table   config.ChannelsTable
		want    config.HotspotConfig
		changed bool
	}{
		{
			name:    "unsupported 2.4GHz channel",
			in:      config.HotspotConfig{Band: config.Band24GHz, Channel: 9},
			table:   table,
			want:    fallback,
			changed: true,
		},
		{
			name:  "supported channel unchanged",
			in:    config.HotspotConfig{SSID: "x", Band: config.Band24GHz, Channel: 3},
			table: table,
			want:  config.HotspotConfig{SSID: "x", Band: config.Band24GHz, Channel: 3},
		},
		{
			name:  "supported 5GHz channel unchanged",
			in:    config.HotspotConfig{Band: config.Band5GHz, Channel: 40},
			table: table,
			want:  config.HotspotConfig{Band: config.Band5GHz, Channel: 40},
		},
		{
			name:    "unsupported 5GHz channel falls back to 2.4GHz",
			in:      config.HotspotConfig{Band: config.Band5GHz, Channel: 149},
			table:   table,
			want:    fallback,
			changed: true,
		},
		{
			name:    "band missing from table",
			in:      config.HotspotConfig{Band: config.Band5GHz, Channel: 36},
			table:   config.ChannelsTable{config.Band24GHz: {1, 6, 11}},
			want:    fallback,
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			changed := ValidateBandChannel(&cfg, tt.table)
			if cfg != tt.want {
				t.Errorf("ValidateBandChannel() = %+v, want %+v", cfg, tt.want)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
		})
	}
}
