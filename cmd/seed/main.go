// seed importa productos y clientes desde CSV (exportaciones de hoja de cálculo,
// usualmente en Windows-1252) al almacenamiento configurado.
//
// Uso: go run ./cmd/seed -products productos.csv -clients clientes.csv -encoding windows-1252 -sep ';'
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/storage"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func main() {
	productsPath := flag.String("products", "", "CSV de productos (id,name,category,price_retail,price_wholesale,cost,stock)")
	clientsPath := flag.String("clients", "", "CSV de clientes (id,name,business_name,phone,address,debt,credit_limit)")
	enc := flag.String("encoding", "utf-8", "codificación de los archivos: utf-8, latin1, windows-1252")
	sep := flag.String("sep", ",", "separador de columnas")
	flag.Parse()

	if *productsPath == "" && *clientsPath == "" {
		fmt.Fprintln(os.Stderr, "indique -products y/o -clients")
		flag.Usage()
		os.Exit(2)
	}
	comma, size := utf8.DecodeRuneInString(*sep)
	if size == 0 || size != len(*sep) {
		fmt.Fprintf(os.Stderr, "separador inválido: %q\n", *sep)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer store.Close()

	if *productsPath != "" {
		records, err := readCSV(*productsPath, *enc, comma)
		if err != nil {
			log.Fatal().Err(err).Str("file", *productsPath).Msg("leer productos")
		}
		n, err := importProducts(ctx, usecase.NewProductUseCase(store.Products, store.Movements), records)
		if err != nil {
			log.Fatal().Err(err).Int("imported", n).Msg("importar productos")
		}
		log.Info().Int("imported", n).Str("file", *productsPath).Msg("productos importados")
	}
	if *clientsPath != "" {
		records, err := readCSV(*clientsPath, *enc, comma)
		if err != nil {
			log.Fatal().Err(err).Str("file", *clientsPath).Msg("leer clientes")
		}
		n, err := importClients(ctx, usecase.NewClientUseCase(store.Clients), records)
		if err != nil {
			log.Fatal().Err(err).Int("imported", n).Msg("importar clientes")
		}
		log.Info().Int("imported", n).Str("file", *clientsPath).Msg("clientes importados")
	}
}

func readCSV(path, enc string, sep rune) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvRecords(f, enc, sep)
}
