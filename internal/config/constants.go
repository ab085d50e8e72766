package config

// Application constants
const (
	AppName    = "surfviz"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. SURFVIZ_RENDER_DPI.
	EnvPrefix = "SURFVIZ"

	ConfigFileName = "surfviz.yaml"

	// Input tables produced by the pricing engines
	PriceSurfaceFile = "price_surface.csv"
	DeltaSurfaceFile = "delta_surface.csv"

	ImageExtension = ".png"

	DirPermission  = 0o755
	FilePermission = 0o644
)
