package memberorder

// lifecycleNames are the engine callbacks invoked by the runtime rather than
// by user code.
var lifecycleNames = newNameSet(
	"Awake", "Start", "Update", "FixedUpdate", "LateUpdate",
	"OnEnable", "OnDisable",
	"OnCollisionEnter", "OnCollisionExit", "OnCollisionStay",
	"OnCollisionEnter2D", "OnCollisionExit2D", "OnCollisionStay2D",
	"OnTriggerEnter", "OnTriggerExit", "OnTriggerStay",
	"OnTriggerEnter2D", "OnTriggerExit2D", "OnTriggerStay2D",
	"OnBecameVisible", "OnBecameInvisible",
	"OnApplicationFocus", "OnApplicationPause", "OnApplicationQuit",
	"OnGUI", "OnDrawGizmos", "OnDrawGizmosSelected", "OnValidate", "Reset",
	"OnMouseDown", "OnMouseUp", "OnMouseEnter", "OnMouseExit",
	"OnMouseOver", "OnMouseDrag",
	"OnAnimatorIK", "OnAnimatorMove",
	"OnPointerClick", "OnPointerDown", "OnPointerUp",
	"OnPointerEnter", "OnPointerExit",
	"OnDrag", "OnBeginDrag", "OnEndDrag", "OnDrop",
	"OnSelect", "OnDeselect", "OnSubmit", "OnCancel", "OnScroll",
	"OnMove", "OnInitializePotentialDrag",
)

var cleanupNames = newNameSet("OnDestroy", "Dispose")

// serializeAttribute marks a field exposed to the editor.
const serializeAttribute = "SerializeField"

type nameSet map[string]struct{}

func newNameSet(names ...string) nameSet {
	s := make(nameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s nameSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

// IsLifecycleName reports whether name is a reserved engine callback.
func IsLifecycleName(name string) bool { return lifecycleNames.has(name) }

// IsCleanupName reports whether name is a teardown method name.
func IsCleanupName(name string) bool { return cleanupNames.has(name) }
