package infra

import (
	"fmt"

	"gyscontrol/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express (sequences for correlativos, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates or updates the full schema. Also used by integration
// tests against throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Proveedor{},
		&model.ContactoProveedor{},
		&model.HojaGastos{},
		&model.GastoLinea{},
		&model.Anticipo{},
		&model.OrdenCompra{},
		&model.OrdenCompraItem{},
		&model.CuentaCobrar{},
		&model.PagoCobranza{},
		&model.CuentaPagar{},
		&model.CuentaBancaria{},
		&model.MovimientoBancario{},
		&model.Cotizacion{},
		&model.CotizacionVersion{},
		&model.CotizacionLinea{},
		&model.Proyecto{},
		&model.FaseProyecto{},
		&model.PlantillaCronograma{},
		&model.PlantillaFase{},
		&model.RegistroHoras{},
		&model.Adjunto{},
		&model.EventoAuditoria{},
		&model.Notificacion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Correlativos por tipo de documento. nextval is transaction-safe:
		// two concurrent creates never share a code.
		`CREATE SEQUENCE IF NOT EXISTS hojas_gastos_codigo_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS ordenes_compra_codigo_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS cuentas_cobrar_codigo_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS cuentas_pagar_codigo_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS cotizaciones_codigo_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS proyectos_codigo_seq START 1`,

		// Partial index for the aging query and the vencimientos cron.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cuentas_cobrar_pendientes') THEN
		    CREATE INDEX idx_cuentas_cobrar_pendientes
		        ON cuentas_cobrar (fecha_vencimiento)
		        WHERE estado IN ('emitida', 'parcial') AND saldo > 0;
		  END IF;
		END $$`,

		// Timeline reads are always (tipo, documento, created_at ASC).
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_eventos_timeline') THEN
		    CREATE INDEX idx_eventos_timeline
		        ON eventos_auditoria (tipo_documento, documento_id, created_at);
		  END IF;
		END $$`,

		// Unread-badge query: notificaciones no leídas por usuario.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_notificaciones_no_leidas') THEN
		    CREATE INDEX idx_notificaciones_no_leidas
		        ON notificaciones (usuario_id, created_at DESC)
		        WHERE leida = false;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
