package schema

// Reconcile records in m, a freshly loaded baseline, the edits that turn it
// into target. Names are the only identity: a renamed table or column shows
// up as a deletion plus an addition. Columns whose stored definition changed
// are deleted and added again; see sameStored.
func (m *Model) Reconcile(target *Model) error {
	keep := make(map[*Table]bool, len(m.Tables))
	for _, tt := range target.Tables {
		bt := m.Table(tt.Name)
		if bt == nil {
			nt, err := m.AddTable(tt.Name)
			if err != nil {
				return err
			}
			for _, tc := range tt.Columns {
				if _, err := m.AddColumn(nt, tc.Def()); err != nil {
					return err
				}
			}
			keep[nt] = true
			continue
		}
		keep[bt] = true
		if bt.Deleted {
			m.ToggleDeleteTable(bt)
		}
		for _, bc := range bt.Columns {
			if bc.Deleted {
				continue
			}
			if tc := tt.Column(bc.Name); tc == nil || !sameStored(bc.Def(), tc.Def()) {
				if err := m.ToggleDeleteColumn(bt, bc); err != nil {
					return err
				}
			}
		}
		for _, tc := range tt.Columns {
			if bc := bt.Column(tc.Name); bc == nil || bc.Deleted {
				if _, err := m.AddColumn(bt, tc.Def()); err != nil {
					return err
				}
			}
		}
	}
	for _, bt := range m.Tables {
		if !keep[bt] && !bt.Deleted {
			m.ToggleDeleteTable(bt)
		}
	}
	return nil
}

// sameStored reports whether the baseline column base already stores what
// target describes. Stores read multiple columns back as text, and not every
// store reports defaults, so a default is only compared when the baseline
// has one.
func sameStored(base, target ColumnDef) bool {
	if base.Type == TypeText && target.Type == TypeMultiple {
		base.Type = TypeMultiple
	}
	if base.DefaultValue == "" {
		target.DefaultValue = ""
	}
	return base.Equal(target)
}
