package ports

const DefaultAccessoryName = "Secondary Internet"

// Accessory describes the binary sensor to automation consumers.
type Accessory struct {
	Name         string
	Manufacturer string
	Model        string
	SerialNumber string
}

func NewAccessory(name string) Accessory {
	if name == "" {
		name = DefaultAccessoryName
	}

	return Accessory{
		Name:         name,
		Manufacturer: "wan-monitor",
		Model:        "WAN Monitor",
		SerialNumber: "WANMon-001",
	}
}
