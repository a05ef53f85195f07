package interp

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerVMOps installs PLRM's `save`/`restore` (spec.md §3, §9): stubbed
// to a generation-counter sentinel rather than a real VM snapshot, per
// spec.md's Non-goal "Save/restore of virtual memory beyond a nominal
// sentinel is out of scope".
func (ip *Interpreter) registerVMOps() {
	ip.register("save", opSave)
	ip.register("restore", opRestore)
}

func opSave(ip *Interpreter) *pserror.Error {
	ip.saveGen++
	marker := &object.SaveMarker{Gen: ip.saveGen, DictDepth: ip.dicts.Depth()}
	ip.openSaves[marker.Gen] = marker
	ip.operands.Push(object.Object{Type: object.TSave, Exec: object.Literal, Acc: object.Unlimited, Value: marker})
	return nil
}

// opRestore implements `restore`'s staleness check (spec.md §9 resolved
// Open Question): restoring an already-consumed Save, or one not currently
// open, raises invalidrestore. Restoring marker also consumes every Save
// opened after it, since PLRM's nesting discipline never lets a later save
// outlive an earlier restore.
func opRestore(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.PopTyped(object.TSave, "restore")
	if err != nil {
		return err
	}
	marker, ok := v.Value.(*object.SaveMarker)
	if !ok {
		return pserror.New(pserror.TypeCheck, "restore", "malformed save operand")
	}
	stored, open := ip.openSaves[marker.Gen]
	if !open || stored != marker || marker.Consumed {
		return pserror.New(pserror.InvalidRestore, "restore", "save object already restored or stale")
	}
	for gen, m := range ip.openSaves {
		if gen >= marker.Gen {
			m.Consumed = true
			delete(ip.openSaves, gen)
		}
	}
	return nil
}
