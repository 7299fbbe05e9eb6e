package config

// Theme defines the colors used by CLI output
type Theme struct {
	// Preset name ("default" or "monochrome")
	Preset string `yaml:"preset,omitempty"`

	Accent  string `yaml:"accent,omitempty"`
	Header  string `yaml:"header,omitempty"`
	Border  string `yaml:"border,omitempty"`
	Subtle  string `yaml:"subtle,omitempty"`
	Normal  string `yaml:"normal,omitempty"`
	Success string `yaml:"success,omitempty"`
	Warning string `yaml:"warning,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

// DefaultTheme returns the default purple theme
func DefaultTheme() Theme {
	return Theme{
		Preset:  "default",
		Accent:  "#874BFD",
		Header:  "#D75FD7",
		Border:  "#5F87D7",
		Subtle:  "#585858",
		Normal:  "#D0D0D0",
		Success: "#5FD75F",
		Warning: "#FFD700",
		Error:   "#FF0000",
	}
}

// MonochromeTheme returns a black and white theme
func MonochromeTheme() Theme {
	return Theme{
		Preset:  "monochrome",
		Accent:  "#FFFFFF",
		Header:  "#FFFFFF",
		Border:  "#FFFFFF",
		Subtle:  "#585858",
		Normal:  "#D0D0D0",
		Success: "#FFFFFF",
		Warning: "#FFFFFF",
		Error:   "#FFFFFF",
	}
}

// GetPreset returns a preset theme by name, falling back to the default
func GetPreset(name string) Theme {
	switch name {
	case "monochrome":
		return MonochromeTheme()
	default:
		return DefaultTheme()
	}
}

// ApplyDefaults fills in missing colors from the preset
func (t *Theme) ApplyDefaults() {
	preset := GetPreset(t.Preset)
	if t.Preset == "" {
		t.Preset = preset.Preset
	}

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&t.Accent, preset.Accent)
	fill(&t.Header, preset.Header)
	fill(&t.Border, preset.Border)
	fill(&t.Subtle, preset.Subtle)
	fill(&t.Normal, preset.Normal)
	fill(&t.Success, preset.Success)
	fill(&t.Warning, preset.Warning)
	fill(&t.Error, preset.Error)
}
