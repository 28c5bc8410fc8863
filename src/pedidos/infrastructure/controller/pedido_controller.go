package controller

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pedidos/src/pedidos/application/request"
	"pedidos/src/pedidos/application/usecase"
	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
)

// PedidoController maneja las peticiones HTTP de los tres flujos:
// confirmación de selección, confirmación de pedido y registro de pagos
type PedidoController struct {
	confirmarSeleccionUC *usecase.ConfirmarSeleccionUseCase
	confirmarPedidoUC    *usecase.ConfirmarPedidoUseCase
	registrarPagosUC     *usecase.RegistrarPagosUseCase
	store                port.RecordStore
	log                  *zap.SugaredLogger

	// Banderas de operación en curso por flujo y destino. No es un
	// lock: una transacción idéntica re-entrante se rechaza con 409.
	enCurso sync.Map
}

// NewPedidoController crea una nueva instancia del controlador
func NewPedidoController(
	confirmarSeleccionUC *usecase.ConfirmarSeleccionUseCase,
	confirmarPedidoUC *usecase.ConfirmarPedidoUseCase,
	registrarPagosUC *usecase.RegistrarPagosUseCase,
	store port.RecordStore,
	log *zap.SugaredLogger,
) *PedidoController {
	return &PedidoController{
		confirmarSeleccionUC: confirmarSeleccionUC,
		confirmarPedidoUC:    confirmarPedidoUC,
		registrarPagosUC:     registrarPagosUC,
		store:                store,
		log:                  log,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *PedidoController) RegisterRoutes(router *gin.RouterGroup) {
	lineas := router.Group("/lineas")
	{
		lineas.GET("", c.ListarLineas)
		lineas.GET("/grupos", c.ListarGrupos)
		lineas.POST("/confirmar-seleccion", c.ConfirmarSeleccion)
	}

	pedidos := router.Group("/pedidos")
	{
		pedidos.POST("", c.ConfirmarPedido)
		pedidos.GET("/:no_pedido", c.GetPedido)
		pedidos.POST("/:no_pedido/pagos", c.RegistrarPagos)
	}
}

// ocupar marca el flujo como en curso; devuelve false si ya lo estaba
func (c *PedidoController) ocupar(clave string) bool {
	_, enCurso := c.enCurso.LoadOrStore(clave, true)
	return !enCurso
}

func (c *PedidoController) liberar(clave string) {
	c.enCurso.Delete(clave)
}

// ConfirmarSeleccion transiciona las líneas seleccionadas a Confirmar y Monitorear
func (c *PedidoController) ConfirmarSeleccion(ctx *gin.Context) {
	var req request.ConfirmarSeleccionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !c.ocupar("confirmar-seleccion") {
		ctx.JSON(http.StatusConflict, gin.H{"error": "ya hay una confirmación de selección en curso"})
		return
	}
	defer c.liberar("confirmar-seleccion")

	resp, err := c.confirmarSeleccionUC.Execute(ctx.Request.Context(), req.LineaIDs)
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ConfirmarPedido consolida un grupo de líneas en un pedido nuevo
func (c *PedidoController) ConfirmarPedido(ctx *gin.Context) {
	var req request.ConfirmarPedidoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clave := "confirmar-pedido:" + req.NoPedido
	if !c.ocupar(clave) {
		ctx.JSON(http.StatusConflict, gin.H{"error": "ya hay una confirmación en curso para ese pedido"})
		return
	}
	defer c.liberar(clave)

	resp, err := c.confirmarPedidoUC.Execute(ctx.Request.Context(), &req)
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// RegistrarPagos agrega pagos a un pedido confirmado
func (c *PedidoController) RegistrarPagos(ctx *gin.Context) {
	noPedido := ctx.Param("no_pedido")

	var req request.RegistrarPagosRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clave := "registrar-pagos:" + noPedido
	if !c.ocupar(clave) {
		ctx.JSON(http.StatusConflict, gin.H{"error": "ya hay un registro de pagos en curso para ese pedido"})
		return
	}
	defer c.liberar(clave)

	resp, err := c.registrarPagosUC.Execute(ctx.Request.Context(), noPedido, &req)
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListarLineas lista las líneas, opcionalmente filtradas por estado
func (c *PedidoController) ListarLineas(ctx *gin.Context) {
	var filter map[string]any
	if estado := ctx.Query("estado"); estado != "" {
		filter = map[string]any{entity.FieldEstado: estado}
	}

	records, err := c.store.ReadAll(ctx.Request.Context(), entity.TableLineas, filter)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	lineas := make([]entity.OrderLine, 0, len(records))
	for _, r := range records {
		lineas = append(lineas, entity.NewOrderLine(r))
	}
	ctx.JSON(http.StatusOK, gin.H{"lineas": lineas, "total": len(lineas)})
}

// ListarGrupos agrupa las líneas por (no. de pedido, línea de producto)
// para mostrar los candidatos a consolidar
func (c *PedidoController) ListarGrupos(ctx *gin.Context) {
	estado := ctx.Query("estado")
	if estado == "" {
		estado = entity.EstadoConfirmarYMonitorear
	}

	records, err := c.store.ReadAll(ctx.Request.Context(), entity.TableLineas, map[string]any{entity.FieldEstado: estado})
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	lineas := make([]entity.OrderLine, 0, len(records))
	for _, r := range records {
		lineas = append(lineas, entity.NewOrderLine(r))
	}

	grupos := entity.GroupLines(lineas)
	ctx.JSON(http.StatusOK, gin.H{"grupos": grupos, "total": len(grupos)})
}

// GetPedido devuelve un pedido con sus derivados de pago
func (c *PedidoController) GetPedido(ctx *gin.Context) {
	noPedido := ctx.Param("no_pedido")

	records, err := c.store.ReadAll(ctx.Request.Context(), entity.TablePedidos, map[string]any{entity.FieldNoPedido: noPedido})
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	if len(records) == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": entity.ErrPedidoNoEncontrado.Error()})
		return
	}

	pedido := entity.NewOrder(records[0])
	ctx.JSON(http.StatusOK, gin.H{
		"pedido":   pedido,
		"restante": pedido.Restante(),
	})
}

// writeError traduce la taxonomía de errores del dominio a HTTP
func (c *PedidoController) writeError(ctx *gin.Context, err error) {
	var vErr *entity.ValidationError
	if errors.As(err, &vErr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": vErr.Reason})
		return
	}

	var permErr *entity.PermissionError
	if errors.As(err, &permErr) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": permErr.Error()})
		return
	}

	var parcial *entity.PartialFailure
	if errors.As(err, &parcial) {
		c.log.Errorw("fallo parcial", "paso", parcial.Step, "completados", parcial.Succeeded, "error", parcial.Err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":       parcial.Error(),
			"paso":        parcial.Step,
			"completados": parcial.Succeeded,
			"intentados":  parcial.Attempted,
		})
		return
	}

	c.log.Errorw("error no clasificado", "error", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
