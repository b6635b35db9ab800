package dw

import "debug/dwarf"

// ForEachFunc calls fn for every defined subprogram below d, usually a unit
// DIE, until fn returns false or an error. Namespaces, modules and
// aggregate types are searched; bodies of functions are not.
func (d Die) ForEachFunc(fn func(Die) (bool, error)) error {
	_, err := d.walkFuncs(fn)
	return err
}

func (d Die) walkFuncs(fn func(Die) (bool, error)) (bool, error) {
	it := d.Children()
	for it.Next() {
		child := it.Die()
		switch child.entry.Tag {
		case dwarf.TagSubprogram:
			if child.IsDeclaration() {
				continue
			}
			cont, err := fn(child)
			if err != nil || !cont {
				return false, err
			}
		case dwarf.TagNamespace,
			dwarf.TagModule,
			dwarf.TagClassType,
			dwarf.TagStructType,
			dwarf.TagUnionType,
			dwarf.TagInterfaceType:
			cont, err := child.walkFuncs(fn)
			if err != nil || !cont {
				return false, err
			}
		}
	}
	return true, it.Err()
}
