package api

import (
	"net/http"

	"github.com/annel0/masonry/internal/engine"
	"github.com/annel0/masonry/internal/storage"
	"github.com/annel0/masonry/internal/unit"
	"github.com/gin-gonic/gin"
)

func (rs *RestServer) handlePlace(c *gin.Context) {
	var req engine.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный формат запроса"})
		return
	}
	res, err := rs.engine.Place(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Элемент уложен", res)
}

func (rs *RestServer) handleListUnits(c *gin.Context) {
	filter := unit.Type(c.Query("type"))
	all := rs.engine.Snapshot()
	if filter == "" {
		respondOK(c, http.StatusOK, "Элементы получены", all)
		return
	}
	out := make([]*unit.Unit, 0, len(all))
	for _, u := range all {
		if u.Type == filter {
			out = append(out, u)
		}
	}
	respondOK(c, http.StatusOK, "Элементы получены", out)
}

func (rs *RestServer) handleGetUnit(c *gin.Context) {
	u, ok := rs.engine.Unit(c.Param("id"))
	if !ok {
		respondError(c, engine.ErrUnitNotFound)
		return
	}
	respondOK(c, http.StatusOK, "Элемент получен", u)
}

func (rs *RestServer) handleRemoveUnit(c *gin.Context) {
	u, err := rs.engine.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Элемент удален", u)
}

// NeighborsResponse — соседи элемента; отсутствующий сосед равен null
type NeighborsResponse struct {
	Left  *unit.Unit `json:"left"`
	Right *unit.Unit `json:"right"`
}

func (rs *RestServer) handleNeighbors(c *gin.Context) {
	left, right, err := rs.engine.Neighbors(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Соседи получены", NeighborsResponse{Left: left, Right: right})
}

func (rs *RestServer) handleBeginPlacement(c *gin.Context) {
	var req engine.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный формат запроса"})
		return
	}
	p, err := rs.engine.BeginPlacement(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	rs.pendingMu.Lock()
	rs.pending = p
	rs.pendingMu.Unlock()
	respondOK(c, http.StatusOK, "Предпросмотр укладки", p.Preview())
}

func (rs *RestServer) takePending() *engine.Pending {
	rs.pendingMu.Lock()
	defer rs.pendingMu.Unlock()
	p := rs.pending
	rs.pending = nil
	return p
}

func (rs *RestServer) handleCommitPlacement(c *gin.Context) {
	p := rs.takePending()
	if p == nil {
		c.JSON(http.StatusConflict, GenericResponse{Success: false, Message: "Нет открытой укладки"})
		return
	}
	res, err := p.Commit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Укладка зафиксирована", res)
}

func (rs *RestServer) handleCancelPlacement(c *gin.Context) {
	p := rs.takePending()
	cancelled := p != nil && p.Cancel()
	respondOK(c, http.StatusOK, "Укладка отменена", gin.H{"cancelled": cancelled})
}

func (rs *RestServer) handleListScenes(c *gin.Context) {
	names, err := rs.store.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Сцены получены", names)
}

func (rs *RestServer) handleSaveScene(c *gin.Context) {
	scene := storage.NewScene(c.Param("name"), rs.engine.Snapshot())
	if err := rs.store.Save(c.Request.Context(), scene); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Сцена сохранена", gin.H{"name": scene.Name, "units": len(scene.Units)})
}

func (rs *RestServer) handleLoadScene(c *gin.Context) {
	scene, err := rs.store.Load(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	report, err := rs.engine.Load(c.Request.Context(), scene.Units)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Сцена загружена", report)
}

func (rs *RestServer) handleDeleteScene(c *gin.Context) {
	if err := rs.store.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Сцена удалена", nil)
}

// ThicknessRequest — пользовательская толщина шва
type ThicknessRequest struct {
	Value float64 `json:"value" binding:"required"`
}

func (rs *RestServer) handleListThickness(c *gin.Context) {
	if rs.thickness == nil {
		respondOK(c, http.StatusOK, "Толщины швов", map[string]float64{})
		return
	}
	respondOK(c, http.StatusOK, "Толщины швов", rs.thickness.UserOverrides())
}

func (rs *RestServer) handleSetThickness(c *gin.Context) {
	if rs.thickness == nil {
		c.JSON(http.StatusNotImplemented, GenericResponse{Success: false, Message: "Толщины швов не настраиваются"})
		return
	}
	var req ThicknessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный формат запроса"})
		return
	}
	if err := rs.thickness.SetUserThickness(c.Param("subType"), req.Value); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: err.Error()})
		return
	}
	respondOK(c, http.StatusOK, "Толщина шва сохранена", rs.thickness.UserOverrides())
}

func (rs *RestServer) handleClearThickness(c *gin.Context) {
	if rs.thickness != nil {
		rs.thickness.ClearUserThickness(c.Param("subType"))
	}
	respondOK(c, http.StatusOK, "Толщина шва сброшена", nil)
}

func (rs *RestServer) handleFormats(c *gin.Context) {
	respondOK(c, http.StatusOK, "Каталог форматов", unit.Formats())
}
