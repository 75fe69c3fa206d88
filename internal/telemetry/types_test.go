package telemetry

import "testing"

func TestBatteryStatus_Conversions(t *testing.T) {
	b := BatteryStatus{RemainingPercent: -1, Temperature: 2345, Current: 125, Voltages: []int{4000, 4010, 65535, 0}}

	if _, ok := b.Percent(); ok {
		t.Fatalf("Percent known for -1")
	}
	if got := b.TemperatureC(); got != 23.45 {
		t.Fatalf("TemperatureC = %v, want 23.45", got)
	}
	if got := b.CurrentMA(); got != 1250 {
		t.Fatalf("CurrentMA = %d, want 1250", got)
	}
	mv, ok := b.PackVoltage()
	if !ok || mv != 8010 {
		t.Fatalf("PackVoltage = %d, %v, want 8010, true", mv, ok)
	}
	if got := b.Cells(); got != 2 {
		t.Fatalf("Cells = %d, want 2", got)
	}
}

func TestBatteryStatus_CloneIsIndependent(t *testing.T) {
	b := BatteryStatus{Voltages: []int{4000}}
	dup := b.Clone()
	dup.Voltages[0] = 1
	if b.Voltages[0] != 4000 {
		t.Fatalf("Clone shares voltages slice")
	}
}

func TestHeartbeat_ParsedTimeInvalid(t *testing.T) {
	if got := (Heartbeat{Timestamp: "yesterday"}).ParsedTime(); !got.IsZero() {
		t.Fatalf("ParsedTime = %v, want zero", got)
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v, want %v", k.String(), got, ok, k)
		}
	}
	if _, ok := ParseKind("telemetry"); ok {
		t.Fatalf("ParseKind accepted unknown tag")
	}
}
