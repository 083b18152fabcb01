package visit

// Each apparatus child exposes HasAnyData so a client can decide whether to
// expand its section. Prune drops children without findings: sub-objects are
// attached lazily on first write, so an all-default child means the section
// was opened but never filled in.

func (a *ApparatusEvaluation) Prune() *ApparatusEvaluation {
	if a == nil {
		return nil
	}
	if a.Cranio != nil {
		a.Cranio.Cefalea = pruneCefalea(a.Cranio.Cefalea)
		if !a.Cranio.HasAnyData() {
			a.Cranio = nil
		}
	}
	if a.Respiratorio != nil && !a.Respiratorio.HasAnyData() {
		a.Respiratorio = nil
	}
	if a.Cardiovascolare != nil && !a.Cardiovascolare.HasAnyData() {
		a.Cardiovascolare = nil
	}
	if a.Gastrointestinale != nil && !a.Gastrointestinale.HasAnyData() {
		a.Gastrointestinale = nil
	}
	if a.Urinario != nil && !a.Urinario.HasAnyData() {
		a.Urinario = nil
	}
	if a.Riproduttivo != nil && !a.Riproduttivo.HasAnyData() {
		a.Riproduttivo = nil
	}
	if a.PsicoNeuroEndocrino != nil && !a.PsicoNeuroEndocrino.HasAnyData() {
		a.PsicoNeuroEndocrino = nil
	}
	if a.UnghieCute != nil && !a.UnghieCute.HasAnyData() {
		a.UnghieCute = nil
	}
	if a.Metabolismo != nil && !a.Metabolismo.HasAnyData() {
		a.Metabolismo = nil
	}
	if a.Linfonodi != nil && !a.Linfonodi.HasAnyData() {
		a.Linfonodi = nil
	}
	if a.MuscoloScheletrico != nil && !a.MuscoloScheletrico.HasAnyData() {
		a.MuscoloScheletrico = nil
	}
	if a.Nervoso != nil && !a.Nervoso.HasAnyData() {
		a.Nervoso = nil
	}
	if !a.HasAnyData() {
		return nil
	}
	return a
}

func (a *ApparatusEvaluation) HasAnyData() bool {
	if a == nil {
		return false
	}
	return a.Cranio != nil || a.Respiratorio != nil || a.Cardiovascolare != nil ||
		a.Gastrointestinale != nil || a.Urinario != nil || a.Riproduttivo != nil ||
		a.PsicoNeuroEndocrino != nil || a.UnghieCute != nil || a.Metabolismo != nil ||
		a.Linfonodi != nil || a.MuscoloScheletrico != nil || a.Nervoso != nil
}

func pruneCefalea(c *Cefalea) *Cefalea {
	if c == nil {
		return nil
	}
	if ch := c.Caratteristiche; ch != nil {
		if ch.Tipo == "" && ch.Sede == "" && ch.VAS == 0 && ch.FattoriScatenanti == "" {
			c.Caratteristiche = nil
		}
	}
	if c.Frequenza == "" && c.Caratteristiche == nil && c.Note == "" {
		return nil
	}
	return c
}

func (c *Cranio) HasAnyData() bool {
	return c != nil && (c.Traumi || c.Vertigini || c.DisturbiVista || c.Bruxismo ||
		c.Cefalea != nil || c.Note != "")
}

func (r *Respiratorio) HasAnyData() bool {
	return r != nil && (r.Dispnea || r.Tosse || r.Asma || r.Allergie || r.Note != "")
}

func (c *Cardiovascolare) HasAnyData() bool {
	return c != nil && (c.Ipertensione || c.Palpitazioni || c.Edemi || c.Note != "")
}

func (g *Gastrointestinale) HasAnyData() bool {
	return g != nil && (g.Reflusso || g.Gonfiore || g.Stipsi || g.Diarrea || g.Alvo != "" || g.Note != "")
}

func (u *Urinario) HasAnyData() bool {
	return u != nil && (u.Incontinenza || u.Infezioni || u.Nicturia || u.Note != "")
}

func (r *Riproduttivo) HasAnyData() bool {
	return r != nil && (r.CicloRegolare || r.Dismenorrea || r.Gravidanze != 0 || r.Note != "")
}

func (p *PsicoNeuroEndocrino) HasAnyData() bool {
	return p != nil && (p.Ansia || p.DisturbiSonno || p.Stress != "" || p.Tiroide || p.Note != "")
}

func (u *UnghieCute) HasAnyData() bool {
	return u != nil && (u.Dermatiti || u.UnghieFragili || u.Psoriasi || u.Note != "")
}

func (m *Metabolismo) HasAnyData() bool {
	return m != nil && (m.Diabete || m.Colesterolo || m.Osteoporosi || m.Note != "")
}

func (l *Linfonodi) HasAnyData() bool {
	return l != nil && (l.Ingrossati || l.Dolenti || l.Sede != "" || l.Note != "")
}

func (m *MuscoloScheletrico) HasAnyData() bool {
	return m != nil && (m.Dolore || m.Rigidita || m.Sede != "" || m.VAS != 0 || m.Note != "")
}

func (n *Nervoso) HasAnyData() bool {
	return n != nil && (n.Parestesie || n.Formicolii || n.Irradiazione != "" || n.Note != "")
}
