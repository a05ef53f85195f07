package interp

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerResourceOps installs `findresource`/`defineresource`, stubbed to
// the Font category only, per SPEC_FULL.md's supplemented-features
// decision: any other category name is accepted by defineresource (the
// instance is pushed back but not stored) and always misses on findresource with
// undefinedresource.
func (ip *Interpreter) registerResourceOps() {
	ip.register("findresource", opFindResource)
	ip.register("defineresource", opDefineResource)
}

const fontCategory = "Font"

func opFindResource(ip *Interpreter) *pserror.Error {
	category, err := ip.operands.PopTyped(object.TName, "findresource")
	if err != nil {
		return err
	}
	key, err := ip.operands.Pop("findresource")
	if err != nil {
		return err
	}
	if category.AsName() != fontCategory {
		return pserror.New(pserror.UndefinedResource, "findresource", "only the Font resource category is implemented")
	}
	v, ok := ip.fontDirectory().Get(key)
	if !ok {
		return pserror.New(pserror.UndefinedResource, "findresource", "resource not found")
	}
	ip.operands.Push(v)
	return nil
}

// opDefineResource accepts any category (matching real PostScript's general
// resource mechanism) but only actually wires Font into FontDirectory; any
// other category's instance is simply dropped, per SPEC_FULL.md.
func opDefineResource(ip *Interpreter) *pserror.Error {
	category, err := ip.operands.PopTyped(object.TName, "defineresource")
	if err != nil {
		return err
	}
	instance, err := ip.operands.Pop("defineresource")
	if err != nil {
		return err
	}
	key, err := ip.operands.Pop("defineresource")
	if err != nil {
		return err
	}
	if category.AsName() == fontCategory {
		if instance.Type == object.TDictionary {
			d := instance.Value.(*object.Dict)
			fe := ip.newFontEntry(d, fontMatrixFromDict(d))
			fontObj := ip.installFont(fe)
			if perr := ip.fontDirectory().Set(key, fontObj, "defineresource"); perr != nil {
				return perr
			}
			ip.operands.Push(fontObj)
			return nil
		}
	}
	ip.operands.Push(instance)
	return nil
}
