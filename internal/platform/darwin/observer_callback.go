//go:build darwin && cgo

package darwin

import "C"
import "runtime/cgo"

//export goObserverNotify
func goObserverNotify(handle, element C.uintptr_t, name *C.char) {
	obs, ok := cgo.Handle(handle).Value().(*Observer)
	if !ok {
		return
	}
	obs.dispatch(uintptr(element), C.GoString(name))
}
