package characteristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatteryLevelStatusBasicForm(t *testing.T) {
	p := NewPipeline(BatteryLevelStatus{})

	// bits: present=1(bit0), charge=1 charging(bit2-3), level=3 good(bit4-5), type=0
	raw := byte(1 | (1 << 2) | (3 << 4))
	outcome := p.Parse([]byte{raw}, nil)
	require.NoError(t, outcome.Err)
	d := outcome.Value.(BatteryPowerStateData)
	assert.Equal(t, BatteryPresentYes, d.PresentState)
	assert.Equal(t, BatteryChargeStateCharging, d.ChargeState)
	assert.Equal(t, BatteryChargeLevelGood, d.ChargeLevel)

	data, err := p.Encode(d, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{raw}, data)
}

func TestBatteryLevelStatusBasicChargeLevelRemap(t *testing.T) {
	// basic bits value 1 means CRITICALLY_LOW, not GOOD.
	raw := byte(1 << 4)
	d := decodeBasicBatteryState(raw)
	assert.Equal(t, BatteryChargeLevelCriticallyLow, d.ChargeLevel)
}

func TestBatteryLevelStatusExtendedForm(t *testing.T) {
	p := NewPipeline(BatteryLevelStatus{})
	outcome := p.Parse([]byte{0x00, 0x01}, nil)
	require.NoError(t, outcome.Err)
	d := outcome.Value.(BatteryPowerStateData)
	assert.Equal(t, BatteryChargeStateDischargingInactive, d.ChargeState)
}

func TestBatteryLevelStatusFullForm(t *testing.T) {
	p := NewPipeline(BatteryLevelStatus{})
	// flags=0x02 (level present), powerState bits: present=1,charge=1(charging),level=1(good canonical)
	powerState := uint16(1 | (1 << 2) | (1 << 4))
	data := []byte{0x02, byte(powerState), byte(powerState >> 8), 77}
	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	d := outcome.Value.(BatteryPowerStateData)
	require.NotNil(t, d.Level)
	assert.Equal(t, uint8(77), *d.Level)
	assert.Equal(t, BatteryChargeLevelGood, d.ChargeLevel)
}
