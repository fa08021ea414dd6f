package joint

import (
	"math"

	"github.com/annel0/masonry/internal/logging"
	"github.com/annel0/masonry/internal/unit"
)

const (
	reanchorPlanarTolerance    = 0.5
	reanchorDimensionTolerance = 0.5
	reanchorEpsilon            = 1e-6
)

// ReanchorReport — итог прохода повторной привязки горизонтальных швов
type ReanchorReport struct {
	Checked  int      `json:"checked"`
	Moved    int      `json:"moved"`
	Relinked int      `json:"relinked"`
	Orphaned []string `json:"orphaned,omitempty"`
}

// Reanchor пересчитывает высоту каждого горизонтального шва после загрузки:
// сохраненные отметки могут быть устаревшими. Элемент шва ищется по ссылке
// на родителя, иначе по совпадению позиции и габаритов. Швы без элемента
// попадают в отчет и не удаляются.
func (s *Synthesizer) Reanchor() ReanchorReport {
	var report ReanchorReport
	structural := s.store.Structural()

	for _, j := range s.store.Joints() {
		if j.Orientation != unit.OrientationHorizontal {
			continue
		}
		report.Checked++

		owner := s.ownerOf(j, structural)
		if owner == nil {
			report.Orphaned = append(report.Orphaned, j.ID)
			continue
		}

		changed := false
		if j.ParentID != owner.ID {
			j.ParentID = owner.ID
			report.Relinked++
			changed = true
		}

		y := s.HorizontalJointCenterY(owner, j.Dimensions.Height)
		if math.Abs(j.Position.Y-y) > reanchorEpsilon {
			j.Position.Y = y
			report.Moved++
			changed = true
		}

		if !changed {
			continue
		}
		j.Course = s.classifier.CourseOf(owner)
		j.CourseTracked = true
		if err := s.store.Update(j); err != nil {
			logging.Warn("Не удалось обновить шов %s при повторной привязке: %v", j.ID, err)
		}
	}

	if len(report.Orphaned) > 0 {
		logging.Warn("Повторная привязка: %d горизонтальных швов без элемента", len(report.Orphaned))
	}
	return report
}

func (s *Synthesizer) ownerOf(j *unit.Unit, structural []*unit.Unit) *unit.Unit {
	if j.ParentID != "" {
		if owner, ok := s.store.Get(j.ParentID); ok && !owner.IsJoint() {
			return owner
		}
	}

	// Элемент с тем же отпечатком в плане, чей низ ближе всего к верху шва
	var best *unit.Unit
	bestGap := math.Inf(1)
	for _, u := range structural {
		if u.Position.DistanceXZ(j.Position) > reanchorPlanarTolerance {
			continue
		}
		if math.Abs(u.Dimensions.Length-j.Dimensions.Length) > reanchorDimensionTolerance ||
			math.Abs(u.Dimensions.Width-j.Dimensions.Width) > reanchorDimensionTolerance {
			continue
		}
		if gap := math.Abs(u.Bottom() - j.Top()); gap < bestGap {
			best, bestGap = u, gap
		}
	}
	return best
}
