package theme

// NewCatppuccinMocha creates the dark Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		Primary:   "#cba6f7", // Mauve
		Secondary: "#89b4fa", // Blue
		Tertiary:  "#b4befe", // Lavender

		BgBase:     "#1e1e2e",
		BgMantle:   "#181825",
		BgSurface0: "#313244",
		BgSurface1: "#45475a",
		BgSurface2: "#585b70",

		FgMuted:  "#a6adc8",
		FgSubtle: "#bac2de",
		FgBase:   "#cdd6f4",

		Success: "#a6e3a1",
		Warning: "#f9e2af",
		Error:   "#f38ba8",

		Syntax: "monokai",
	}
}

// NewCatppuccinLatte creates the light Catppuccin Latte theme.
func NewCatppuccinLatte() *Theme {
	return &Theme{
		Name:   "catppuccin-latte",
		IsDark: false,

		Primary:   "#8839ef", // Mauve
		Secondary: "#1e66f5", // Blue
		Tertiary:  "#7287fd", // Lavender

		BgBase:     "#eff1f5",
		BgMantle:   "#e6e9ef",
		BgSurface0: "#ccd0da",
		BgSurface1: "#bcc0cc",
		BgSurface2: "#acb0be",

		FgMuted:  "#6c6f85",
		FgSubtle: "#5c5f77",
		FgBase:   "#4c4f69",

		Success: "#40a02b",
		Warning: "#df8e1d",
		Error:   "#d20f39",

		Syntax: "github",
	}
}
