package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsmcore/pkg/fsm"
)

func mustLoad(t *testing.T, raw string) *fsm.FsmModel {
	t.Helper()
	m, err := fsm.Load([]byte(raw))
	require.NoError(t, err)
	return m
}

const trafficLight = `{
  "name": "Traffic Light",
  "data_dictionary": [{"name": "cycles", "type": "int", "initial_value": 0}],
  "states": [
    {"name": "Red", "is_initial": true, "entry_action": "cycles = cycles + 1"},
    {"name": "Green", "during_action": "cycles = cycles + 1"},
    {"name": "Yellow", "is_final": true}
  ],
  "transitions": [
    {"source": "Red", "target": "Green", "event": "timer"},
    {"source": "Green", "target": "Yellow", "event": "timer", "condition": "cycles > 0"},
    {"source": "Yellow", "target": "Red", "event": "reset", "action": "cycles = 0"}
  ]
}`

func emptyModel(t *testing.T) *fsm.FsmModel {
	t.Helper()
	return &fsm.FsmModel{}
}

func TestGenerateGenericC(t *testing.T) {
	model := mustLoad(t, trafficLight)
	bundle, err := Generate(model, "traffic_light", TargetGenericC, GenOptions{})
	require.NoError(t, err)
	require.Len(t, bundle.Items, 2)

	header := bundle.ByName("traffic_light.h")
	require.NotNil(t, header)
	assert.Contains(t, header.Content, "traffic_light_state_t")
	assert.Contains(t, header.Content, "int64_t cycles")

	src := bundle.ByName("traffic_light.c")
	require.NotNil(t, src)
	assert.Contains(t, src.Content, "traffic_light_step")
	assert.Contains(t, src.Content, "cycles > 0")
}

func TestGenerateGenericCWithTestbench(t *testing.T) {
	model := mustLoad(t, trafficLight)
	bundle, err := Generate(model, "traffic_light", TargetGenericC, GenOptions{IncludeTestbench: true})
	require.NoError(t, err)
	require.Len(t, bundle.Items, 3)
	assert.NotNil(t, bundle.ByName("traffic_light_test.c"))
}

func TestGenerateCStateTable(t *testing.T) {
	model := mustLoad(t, trafficLight)
	bundle, err := Generate(model, "traffic_light", TargetCStateTable, GenOptions{})
	require.NoError(t, err)
	src := bundle.ByName("traffic_light.c")
	require.NotNil(t, src)
	assert.Contains(t, src.Content, "traffic_light_table[]")
	assert.Contains(t, src.Content, "traffic_light_enter_fns")
}

func TestGenerateArduino(t *testing.T) {
	model := mustLoad(t, trafficLight)
	bundle, err := Generate(model, "traffic_light", TargetArduino, GenOptions{})
	require.NoError(t, err)
	require.Len(t, bundle.Items, 3)
	ino := bundle.ByName("traffic_light.ino")
	require.NotNil(t, ino)
	assert.Equal(t, ".ino", ino.Extension)
	assert.Contains(t, ino.Content, "void loop()")
}

func TestGenerateEmbeddedTargets(t *testing.T) {
	model := mustLoad(t, trafficLight)
	for _, target := range []Target{TargetESPIDF, TargetPicoSDK, TargetSTM32HAL} {
		bundle, err := Generate(model, "traffic_light", target, GenOptions{})
		require.NoError(t, err, target)
		require.Len(t, bundle.Items, 3, target)
		for _, item := range bundle.Items {
			assert.Equal(t, string(target), item.Target)
		}
	}
}

func TestGeneratePython(t *testing.T) {
	model := mustLoad(t, trafficLight)
	bundle, err := Generate(model, "traffic_light", TargetPython, GenOptions{})
	require.NoError(t, err)
	require.Len(t, bundle.Items, 1)
	py := bundle.Items[0]
	assert.Equal(t, "traffic_light.py", py.Name)
	assert.Contains(t, py.Content, "class TrafficLight")
	assert.Contains(t, py.Content, `self.state = "Red"`)
	assert.Contains(t, py.Content, `self.state = "Yellow"`)
}

func TestGenerateVHDL(t *testing.T) {
	model := mustLoad(t, trafficLight)
	bundle, err := Generate(model, "traffic_light", TargetVHDL, GenOptions{})
	require.NoError(t, err)
	require.Len(t, bundle.Items, 1)
	assert.Contains(t, bundle.Items[0].Content, "entity traffic_light")
	assert.Contains(t, bundle.Items[0].Content, "cycles")
}

func TestGenerateVerilog(t *testing.T) {
	model := mustLoad(t, trafficLight)
	bundle, err := Generate(model, "traffic_light", TargetVerilog, GenOptions{})
	require.NoError(t, err)
	require.Len(t, bundle.Items, 1)
	assert.Contains(t, bundle.Items[0].Content, "module traffic_light")
}

func TestGeneratePlantUML(t *testing.T) {
	model := mustLoad(t, trafficLight)
	bundle, err := Generate(model, "traffic_light", TargetPlantUML, GenOptions{})
	require.NoError(t, err)
	content := bundle.Items[0].Content
	assert.Contains(t, content, "@startuml")
	assert.Contains(t, content, "[*] --> Red")
	assert.Contains(t, content, "Yellow --> [*]")
}

func TestGenerateMermaid(t *testing.T) {
	model := mustLoad(t, trafficLight)
	bundle, err := Generate(model, "traffic_light", TargetMermaid, GenOptions{})
	require.NoError(t, err)
	content := bundle.Items[0].Content
	assert.Contains(t, content, "stateDiagram-v2")
	assert.Contains(t, content, "[*] --> Red")
}

func TestGenerateUnsupportedTarget(t *testing.T) {
	model := mustLoad(t, trafficLight)
	_, err := Generate(model, "traffic_light", Target("unknown"), GenOptions{})
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UnsupportedTarget, cerr.Kind)
}

func TestGenerateEmptyModel(t *testing.T) {
	_, err := Generate(emptyModel(t), "empty", TargetGenericC, GenOptions{})
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, EmptyModel, cerr.Kind)
}

func TestGenerateIsDeterministic(t *testing.T) {
	model := mustLoad(t, trafficLight)
	for _, target := range []Target{TargetGenericC, TargetCStateTable, TargetPython, TargetVHDL, TargetVerilog, TargetPlantUML, TargetMermaid} {
		first, err := Generate(model, "traffic_light", target, GenOptions{})
		require.NoError(t, err, target)
		second, err := Generate(model, "traffic_light", target, GenOptions{})
		require.NoError(t, err, target)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%s: generation not deterministic: %s", target, diff)
		}
	}
}

func TestSanitizeIdentCollisionResolution(t *testing.T) {
	ids := newIdentSet()
	assert.Equal(t, "state", ids.resolve("state"))
	assert.Equal(t, "state_1", ids.resolve("state"))
	assert.Equal(t, "state_2", ids.resolve("state"))
}

func TestSanitizeIdentKeywordsAndLeadingDigits(t *testing.T) {
	assert.Equal(t, "fsm_switch", sanitizeIdent("switch", "fallback"))
	assert.Equal(t, "_1done", sanitizeIdent("1done", "fallback"))
	assert.Equal(t, "___", sanitizeIdent("!!!", "fallback"))
	assert.Equal(t, "a_b", sanitizeIdent("a!b", "fallback"))
	assert.Equal(t, "fallback", sanitizeIdent("", "fallback"))
}

func TestStateBitsFormula(t *testing.T) {
	assert.Equal(t, 1, stateBits(1))
	assert.Equal(t, 1, stateBits(2))
	assert.Equal(t, 2, stateBits(3))
	assert.Equal(t, 2, stateBits(4))
	assert.Equal(t, 3, stateBits(5))
}
