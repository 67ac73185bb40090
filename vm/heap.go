package vm

import "github.com/google/uuid"

// ObjectID identifies a heap-allocated Object. Using a real UUID type
// (rather than a bare incrementing counter) means references compare by
// genuine identity even if two independently-built heaps are ever merged,
// and it gives if-eq's "identity, not value" semantics something stronger
// than an array index to key off of.
type ObjectID = uuid.UUID

// Heap is the process-wide arena objects are allocated into. There is no
// cycle collector: frames are short-lived and the heap is small in
// practice, so a simple map released at loader teardown is sufficient.
type Heap struct {
	objects map[ObjectID]Object
}

func NewHeap() *Heap {
	return &Heap{objects: make(map[ObjectID]Object)}
}

// New allocates obj and returns its fresh identity.
func (h *Heap) New(obj Object) ObjectID {
	id := uuid.New()
	h.objects[id] = obj
	return id
}

// Get dereferences an ObjectID. A missing id (never allocated, or a zero
// ObjectID used as a null marker) reports ok=false.
func (h *Heap) Get(id ObjectID) (Object, bool) {
	obj, ok := h.objects[id]
	return obj, ok
}

// Set overwrites the object behind an already-allocated id, replacing it
// without allocating a fresh heap slot. Nothing in the VM calls it
// currently: mutators such as StringBuilder.append change the object in
// place through the pointer Get returns.
func (h *Heap) Set(id ObjectID, obj Object) {
	h.objects[id] = obj
}
