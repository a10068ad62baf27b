//go:build windows
// +build windows

package main

import (
	"bytes"
	"image"
	"image/png"
	"sync"
	"unsafe"

	"github.com/lxn/win"
)

const iconRenderPx = 32

// barIconStore caches resolved window icons as PNG for the presentation
// layer. The cache is read by the HTTP goroutine, hence the mutex; all
// writes come from the control thread.
type barIconStore struct {
	mu    sync.Mutex
	cache map[string][]byte // keyed by handleKey
}

func newBarIconStore() *barIconStore {
	return &barIconStore{cache: make(map[string][]byte)}
}

// iconReap collects HICONs whose pixels have been captured; destroying
// them is deferred to the bar thread's WM_APP_ICON_REAP handler.
var iconReap = make(chan win.HICON, 64)

func reapIcon(ic IconHandle) {
	if ic == 0 {
		return
	}
	select {
	case iconReap <- win.HICON(ic):
	default:
		// Queue full, destroy inline rather than leak.
		win.DestroyIcon(win.HICON(ic))
	}
}

func drainIconReap() {
	for i := 0; i < 8; i++ {
		select {
		case h := <-iconReap:
			if h != 0 {
				win.DestroyIcon(h)
			}
		default:
			return
		}
	}
}

func (st *barIconStore) Render(h WindowHandle, ic IconHandle) bool {
	defer safeDefer("icon render")
	defer reapIcon(ic)

	data := iconToPNG(win.HICON(ic))
	if data == nil {
		// Conversion failed; keep whatever image we already had.
		return st.Has(h)
	}
	st.mu.Lock()
	st.cache[handleKey(h)] = data
	st.mu.Unlock()
	return true
}

func (st *barIconStore) Has(h WindowHandle) bool {
	st.mu.Lock()
	_, ok := st.cache[handleKey(h)]
	st.mu.Unlock()
	return ok
}

func (st *barIconStore) PNG(key string) ([]byte, bool) {
	st.mu.Lock()
	data, ok := st.cache[key]
	st.mu.Unlock()
	return data, ok
}

func (st *barIconStore) Prune(live map[WindowHandle]bool) {
	keys := make(map[string]bool, len(live))
	for h := range live {
		keys[handleKey(h)] = true
	}
	st.mu.Lock()
	for k := range st.cache {
		if !keys[k] {
			delete(st.cache, k)
		}
	}
	st.mu.Unlock()
}

// iconToPNG rasterizes an HICON into a 32-bit DIB section and encodes
// the pixels as PNG. Returns nil when any GDI step fails.
func iconToPNG(ic win.HICON) []byte {
	if ic == 0 {
		return nil
	}
	hdcScreen := win.GetDC(0)
	if hdcScreen == 0 {
		return nil
	}
	defer win.ReleaseDC(0, hdcScreen)

	memDC := win.CreateCompatibleDC(hdcScreen)
	if memDC == 0 {
		return nil
	}
	defer win.DeleteDC(memDC)

	bi := win.BITMAPINFOHEADER{
		BiWidth:    iconRenderPx,
		BiHeight:   -iconRenderPx, // top-down
		BiPlanes:   1,
		BiBitCount: 32,
	}
	bi.BiSize = uint32(unsafe.Sizeof(bi))

	var pBits unsafe.Pointer
	hBitmap, _, _ := procCreateDIBSection.Call(
		uintptr(memDC),
		uintptr(unsafe.Pointer(&bi)),
		0, // DIB_RGB_COLORS
		uintptr(unsafe.Pointer(&pBits)),
		0,
		0,
	)
	if hBitmap == 0 || pBits == nil {
		return nil
	}
	defer win.DeleteObject(win.HGDIOBJ(hBitmap))

	old := win.SelectObject(memDC, win.HGDIOBJ(hBitmap))
	ret, _, _ := procDrawIconEx.Call(uintptr(memDC), 0, 0, uintptr(ic),
		iconRenderPx, iconRenderPx, 0, 0, DI_NORMAL)
	win.SelectObject(memDC, old)
	if ret == 0 {
		return nil
	}

	pixels := unsafe.Slice((*uint32)(pBits), iconRenderPx*iconRenderPx)

	// Mask-style icons leave the alpha channel all zero; treat every
	// non-black pixel as opaque in that case.
	hasAlpha := false
	for _, p := range pixels {
		if p&0xFF000000 != 0 {
			hasAlpha = true
			break
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, iconRenderPx, iconRenderPx))
	for i, p := range pixels {
		a := uint8(p >> 24)
		if !hasAlpha {
			if p&0x00FFFFFF != 0 {
				a = 0xFF
			} else {
				a = 0
			}
		}
		img.Pix[i*4+0] = uint8(p >> 16) // R
		img.Pix[i*4+1] = uint8(p >> 8)  // G
		img.Pix[i*4+2] = uint8(p)       // B
		img.Pix[i*4+3] = a
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
