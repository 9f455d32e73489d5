package symbols

// PathID identifies an interned dotted path.
type PathID uint32

// NoPathID marks the absence of a path.
const NoPathID PathID = 0

// IsValid reports whether the path ID refers to an interned path.
func (id PathID) IsValid() bool { return id != NoPathID }

// ItemID identifies a declared item. Items are minted together with their
// path, so an ItemID and the PathID it was declared under share a value.
type ItemID uint32

// NoItemID marks the absence of an item.
const NoItemID ItemID = 0

// IsValid reports whether the item ID refers to a declared item.
func (id ItemID) IsValid() bool { return id != NoItemID }

// Path returns the path handle the item was declared under.
func (id ItemID) Path() PathID { return PathID(id) }

// ModuleID identifies a module in the module graph.
type ModuleID uint32

// NoModuleID marks the absence of a module.
const NoModuleID ModuleID = 0

// IsValid reports whether the module ID refers to a declared module.
func (id ModuleID) IsValid() bool { return id != NoModuleID }

// FrameID identifies a lexical frame.
type FrameID uint32

// NoFrameID marks the absence of a frame.
const NoFrameID FrameID = 0

// IsValid reports whether the frame ID refers to an open frame.
func (id FrameID) IsValid() bool { return id != NoFrameID }

// BindingID identifies a local binding.
type BindingID uint32

// NoBindingID marks the absence of a binding.
const NoBindingID BindingID = 0

// IsValid reports whether the binding ID refers to a binding.
func (id BindingID) IsValid() bool { return id != NoBindingID }
