package main

import (
	"net/http"
	"os"

	"github.com/Grylink/api-finance/internal/auth"
	"github.com/Grylink/api-finance/internal/bids"
	"github.com/Grylink/api-finance/internal/bills"
	"github.com/Grylink/api-finance/internal/cases"
	"github.com/Grylink/api-finance/internal/cwc"
	"github.com/Grylink/api-finance/internal/epc"
	"github.com/Grylink/api-finance/internal/nbfc"
	"github.com/Grylink/api-finance/internal/subcontractor"
	"github.com/Grylink/api-finance/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	database, err := db.ConnectDatabase()
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	if err := database.AutoMigrate(
		&epc.EPC{},
		&subcontractor.SubContractor{},
		&nbfc.NBFC{},
		&bills.Bill{},
		&cases.Case{},
		&bids.Bid{},
		&bids.Negotiation{},
		&cwc.Request{},
		&auth.RefreshToken{},
	); err != nil {
		logrus.WithError(err).Fatal("automigrate failed")
	}

	// Handlers
	epcHandler := epc.NewHandler(database)
	subHandler := subcontractor.NewHandler(database)
	nbfcHandler := nbfc.NewHandler(database)
	billHandler := bills.NewHandler(database)
	caseHandler := cases.NewHandler(database)
	bidHandler := bids.NewHandler(database)
	cwcHandler := cwc.NewHandler(database)

	r := mux.NewRouter()

	// Public routes: registration, login, token refresh
	r.HandleFunc("/epcs", epcHandler.Create).Methods("POST")
	r.HandleFunc("/epcs/login", epcHandler.Login).Methods("POST")
	r.HandleFunc("/subcontractors", subHandler.Create).Methods("POST")
	r.HandleFunc("/subcontractors/login", subHandler.Login).Methods("POST")
	r.HandleFunc("/nbfcs", nbfcHandler.Create).Methods("POST")
	r.HandleFunc("/nbfcs/login", nbfcHandler.Login).Methods("POST")
	r.HandleFunc("/auth/refresh", auth.RefreshHTTPHandler(database)).Methods("POST")
	r.HandleFunc("/auth/logout", auth.LogoutHTTPHandler(database)).Methods("POST")

	// Everything below requires a valid access token
	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAuthenticate)

	// Accounts
	api.Handle("/epcs", auth.RequireRole(auth.RoleAdmin)(http.HandlerFunc(epcHandler.List))).Methods("GET")
	api.HandleFunc("/epcs/{id}", epcHandler.GetByID).Methods("GET")
	api.HandleFunc("/epcs/{id}", epcHandler.Update).Methods("PUT")
	api.Handle("/epcs/{id}", auth.RequireRole(auth.RoleAdmin)(http.HandlerFunc(epcHandler.Delete))).Methods("DELETE")
	api.HandleFunc("/subcontractors", subHandler.List).Methods("GET")
	api.HandleFunc("/subcontractors/{id}", subHandler.GetByID).Methods("GET")
	api.HandleFunc("/subcontractors/{id}/documents/{doc}", subHandler.UploadDocument).Methods("PUT")
	api.Handle("/subcontractors/{id}/documents/{doc}/review",
		auth.RequireRole(auth.RoleAdmin, auth.RoleEPC)(http.HandlerFunc(subHandler.ReviewDocument))).Methods("PUT")
	api.Handle("/nbfcs", auth.RequireRole(auth.RoleAdmin)(http.HandlerFunc(nbfcHandler.List))).Methods("GET")

	// Bills and cases
	api.HandleFunc("/bills", billHandler.Create).Methods("POST")
	api.HandleFunc("/bills", billHandler.List).Methods("GET")
	api.HandleFunc("/bills/{id}", billHandler.GetByID).Methods("GET")
	api.HandleFunc("/bills/{id}/review", billHandler.Review).Methods("PUT")
	api.HandleFunc("/cases", caseHandler.List).Methods("GET")
	api.HandleFunc("/cases/{id}", caseHandler.GetByID).Methods("GET")
	api.HandleFunc("/cases/{id}/bids", bidHandler.ListForCase).Methods("GET")

	// Bid negotiation
	api.Handle("/bids", auth.RequireRole(auth.RoleEPC)(http.HandlerFunc(bidHandler.Place))).Methods("POST")
	api.HandleFunc("/bids/{id}", bidHandler.GetByID).Methods("GET")
	api.HandleFunc("/bids/{id}/negotiate", bidHandler.Negotiate).Methods("POST")
	api.HandleFunc("/bids/{id}/respond", bidHandler.Respond).Methods("POST")
	api.Handle("/bids/{id}/lock", auth.RequireRole(auth.RoleEPC)(http.HandlerFunc(bidHandler.Lock))).Methods("POST")

	// CWC funding requests
	api.HandleFunc("/cwc-requests", cwcHandler.Create).Methods("POST")
	api.HandleFunc("/cwc-requests", cwcHandler.List).Methods("GET")
	api.HandleFunc("/cwc-requests/{id}/verify", cwcHandler.Verify).Methods("POST")
	api.HandleFunc("/cwc-requests/{id}/quote", cwcHandler.Quote).Methods("POST")
	api.HandleFunc("/cwc-requests/{id}/reject", cwcHandler.Reject).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{os.Getenv("CORS_ORIGIN")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.WithField("port", port).Info("server starting")
	if err := http.ListenAndServe(":"+port, c.Handler(r)); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}
