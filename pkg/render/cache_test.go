package render

import (
	"testing"
)

func TestPixelCacheAllocateRejectsDegenerate(t *testing.T) {
	cases := []struct{ w, h int }{
		{0, 10},
		{10, 0},
		{-1, 10},
		{3000, 3000}, // over the pixel cap
	}
	for _, c := range cases {
		cache := &PixelCache{}
		if cache.Allocate(c.w, c.h, 0, 0) {
			t.Errorf("Allocate(%d, %d) succeeded, expected failure", c.w, c.h)
		}
		if cache.Allocated() {
			t.Errorf("Allocate(%d, %d): cache reports allocated", c.w, c.h)
		}
	}
}

func TestPixelCacheSetAndGet(t *testing.T) {
	cache := &PixelCache{}
	if !cache.Allocate(7, 5, 10, 20) {
		t.Fatal("allocation failed")
	}
	if cache.Dirty() {
		t.Error("fresh cache reports dirty")
	}

	// Every cell gets a distinct-ish 2-bit value.
	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			cache.SetPixel(10+x, 20+y, uint8((x+y)&3))
		}
	}
	if !cache.Dirty() {
		t.Error("cache not dirty after writes")
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			want := uint8((x + y) & 3)
			if got := cache.PixelAt(10+x, 20+y); got != want {
				t.Errorf("(%d,%d): %d, expected %d", x, y, got, want)
			}
		}
	}
}

func TestPixelCacheIgnoresOutOfRegionWrites(t *testing.T) {
	cache := &PixelCache{}
	if !cache.Allocate(4, 4, 0, 0) {
		t.Fatal("allocation failed")
	}
	cache.SetPixel(-1, 0, 3)
	cache.SetPixel(0, -1, 3)
	cache.SetPixel(4, 0, 3)
	cache.SetPixel(0, 4, 3)
	if cache.Dirty() {
		t.Error("out-of-region writes marked the cache dirty")
	}
}

func TestPixelCacheWriteToRoundTrip(t *testing.T) {
	cache := &PixelCache{}
	if !cache.Allocate(13, 9, 3, -2) {
		t.Fatal("allocation failed")
	}
	for y := 0; y < 9; y++ {
		for x := 0; x < 13; x++ {
			cache.SetPixel(3+x, -2+y, uint8((x*3+y)&3))
		}
	}

	fs := newFakeFS()
	if err := cache.WriteTo(fs, "region.epc"); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	loaded, err := LoadPixelCache(fs, "region.epc")
	if err != nil {
		t.Fatalf("LoadPixelCache failed: %v", err)
	}
	if loaded.Width() != 13 || loaded.Height() != 9 {
		t.Fatalf("region %dx%d, expected 13x9", loaded.Width(), loaded.Height())
	}
	ox, oy := loaded.Origin()
	if ox != 3 || oy != -2 {
		t.Fatalf("origin (%d,%d), expected (3,-2)", ox, oy)
	}
	for y := 0; y < 9; y++ {
		for x := 0; x < 13; x++ {
			if got, want := loaded.PixelAt(3+x, -2+y), cache.PixelAt(3+x, -2+y); got != want {
				t.Errorf("(%d,%d): loaded %d, expected %d", x, y, got, want)
			}
		}
	}
}

func TestLoadPixelCacheRejectsGarbage(t *testing.T) {
	fs := newFakeFS()
	fs.WriteFile("bogus.epc", []byte("not a cache file at all"))
	if _, err := LoadPixelCache(fs, "bogus.epc"); err == nil {
		t.Error("expected error for corrupt cache file")
	}
	if _, err := LoadPixelCache(fs, "missing.epc"); err == nil {
		t.Error("expected error for missing cache file")
	}
}

func TestPixelCacheWriteToUnallocated(t *testing.T) {
	cache := &PixelCache{}
	if err := cache.WriteTo(newFakeFS(), "x.epc"); err == nil {
		t.Error("expected error writing unallocated cache")
	}
}
