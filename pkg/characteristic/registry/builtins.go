package registry

import "github.com/srg/bluetoothsig/pkg/characteristic"

// builtins is the explicit init()-time registration list standing in
// for the original's dynamic module-tree walk over characteristics/ and
// services/ (registry.py's _build_characteristic_class_map). Every
// concrete Characteristic implemented in pkg/characteristic is listed
// here exactly once; New() registers them all before any lookup runs.
func builtins() []characteristic.Characteristic {
	return []characteristic.Characteristic{
		characteristic.BatteryLevel{},
		characteristic.BatteryLevelStatus{},
		characteristic.Temperature{},
		characteristic.Humidity{},
		characteristic.Appearance{},
		characteristic.VOCConcentration{},
		characteristic.BodyCompositionFeature{},
		characteristic.BodyCompositionMeasurement{},
		characteristic.GlucoseMeasurement{},
		characteristic.GlucoseMeasurementContext{},
		characteristic.CyclingPowerMeasurement{},
		characteristic.CyclingPowerFeature{},
		characteristic.CyclingPowerVector{},
		characteristic.CurrentTime{},
	}
}
