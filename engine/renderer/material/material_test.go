package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial(WithName("sphere"))
	if m.BaseColor() != [4]float32{1, 1, 1, 1} {
		t.Errorf("base color = %v, want white", m.BaseColor())
	}
	if m.DiffuseTexture() != nil {
		t.Error("new material should have no texture")
	}
	if m.Dirty() {
		t.Error("material without texture should start clean")
	}
}

func TestInitialTextureStartsDirty(t *testing.T) {
	m := NewMaterial(WithDiffuseTexture(common.SolidTexture("white", [4]float32{1, 1, 1, 1})))
	if !m.ConsumeDirty() {
		t.Fatal("material with an initial texture should start dirty")
	}
}

func TestSetDiffuseTextureReplacesAndFlags(t *testing.T) {
	m := NewMaterial()
	a := common.SolidTexture("a", [4]float32{1, 0, 0, 1})
	b := common.SolidTexture("b", [4]float32{0, 1, 0, 1})

	m.SetDiffuseTexture(a)
	m.SetDiffuseTexture(b)
	if m.DiffuseTexture() != b {
		t.Fatal("second binding should replace the first")
	}
	if m.Version() != 2 {
		t.Errorf("version = %d, want 2", m.Version())
	}

	if !m.ConsumeDirty() {
		t.Fatal("ConsumeDirty should report the pending change")
	}
	if m.ConsumeDirty() || m.Dirty() {
		t.Fatal("dirty flag should be cleared after one read")
	}
}

func TestGPUMaterialParamsMarshal(t *testing.T) {
	p := GPUMaterialParams{
		BaseColor:    [4]float32{1, 0.5, 0.25, 1},
		AmbientColor: [4]float32{0.2, 0.2, 0.2, 0},
	}
	buf := p.Marshal()
	if len(buf) != p.Size() || p.Size() != 32 {
		t.Fatalf("size = %d/%d, want 32", len(buf), p.Size())
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])); got != 0.5 {
		t.Errorf("base color g = %f, want 0.5", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[16:])); got != 0.2 {
		t.Errorf("ambient r = %f, want 0.2", got)
	}
}
